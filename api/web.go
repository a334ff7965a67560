package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MichaelGalloway404/BooksRead/logger"
	"github.com/MichaelGalloway404/BooksRead/repo"
	"github.com/MichaelGalloway404/BooksRead/service"
	"github.com/MichaelGalloway404/BooksRead/session"
	"github.com/MichaelGalloway404/BooksRead/validator"
)

func homeHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ensureSession(w, r, svc)

		names, err := svc.Home(r.Context(), token)
		if err != nil {
			logger.Error("Failed to load home page", "error", err)
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}

		render(w, "index.html", homeData{Users: upperAll(names)})
	})
}

func loginPageHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ensureSession(w, r, svc)
		svc.Sessions().ResetForAnonymousView(token)
		render(w, "login.html", loginData{})
	})
}

func loginSubmitHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ensureSession(w, r, svc)

		username := r.PostFormValue("Username")
		password := r.PostFormValue("Password")

		user, entries, err := svc.Login(r.Context(), token, username, password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) ||
				errors.Is(err, validator.ErrMissingField) {
				render(w, "login.html", loginData{Error: "Invalid credentials"})
				return
			}
			logger.Error("Login failed", "error", err)
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}

		render(w, "profile.html", profileData{
			ListTitle: titleCase(user.Username) + "'s Books",
			Books:     entries,
		})
	})
}

func signupPageHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ensureSession(w, r, svc)
		svc.Sessions().ResetForAnonymousView(token)
		render(w, "signup.html", signupData{})
	})
}

func signupSubmitHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ensureSession(w, r, svc)

		username := r.PostFormValue("Username")
		password := r.PostFormValue("Password")
		confirm := r.PostFormValue("confirmPassword")

		_, err := svc.SignUp(r.Context(), username, password, confirm)
		if err != nil {
			switch {
			case errors.Is(err, validator.ErrMissingField),
				errors.Is(err, validator.ErrPasswordMismatch):
				render(w, "signup.html", signupData{Error: "Invalid input"})
			case errors.Is(err, repo.ErrDuplicateUser):
				render(w, "signup.html", signupData{Error: "Username already taken"})
			default:
				logger.Error("Signup failed", "error", err)
				http.Error(w, "Server error", http.StatusInternalServerError)
			}
			return
		}

		render(w, "login.html", loginData{Message: "Account created, please log in"})
	})
}

func profileHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ensureSession(w, r, svc)

		user, entries, err := svc.Profile(r.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrNotAuthenticated) {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			logger.Error("Failed to load profile", "error", err)
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}

		render(w, "profile.html", profileData{
			ListTitle: titleCase(user.Username) + "'s Books",
			Books:     entries,
		})
	})
}

func profileViewHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ensureSession(w, r, svc)

		username := r.PostFormValue("user")
		user, entries, err := svc.ProfileView(r.Context(), username)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				render(w, "profile_view.html", profileData{ListTitle: "No Books"})
				return
			}
			logger.Error("Failed to load profile view", "error", err)
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}

		render(w, "profile_view.html", profileData{
			ListTitle: titleCase(user.Username) + "'s Books",
			Books:     entries,
		})
	})
}

func searchHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ensureSession(w, r, svc)

		title := r.PostFormValue("bookTitle")
		author := r.PostFormValue("bookAuthor")

		// delta of 0 re-renders the current page; the paging buttons post
		// positive or negative page-size deltas
		delta := 0
		if v := r.PostFormValue("index"); v != "" {
			if d, err := strconv.Atoi(v); err == nil {
				delta = d
			}
		}

		result := svc.Search(r.Context(), token, title, author, delta)

		_, loggedIn := svc.Sessions().CurrentUser(token)
		render(w, "book_selection.html", selectionData{
			Books:      result.Page,
			Offset:     result.Offset,
			Total:      result.Total,
			BookTitle:  title,
			BookAuthor: author,
			LoggedIn:   loggedIn,
		})
	})
}

func addBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ensureSession(w, r, svc)

		title := r.PostFormValue("title")
		author := r.PostFormValue("author")
		coverURL := r.PostFormValue("coverUrl")

		if err := svc.AddBook(r.Context(), token, title, author, coverURL); err != nil {
			if errors.Is(err, session.ErrNotAuthenticated) {
				http.Error(w, "Not logged in", http.StatusUnauthorized)
				return
			}
			if errors.Is(err, validator.ErrMissingField) {
				http.Error(w, "Missing book info", http.StatusBadRequest)
				return
			}
			logger.Error("Failed to add book", "error", err)
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	})
}

func deleteBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ensureSession(w, r, svc)

		title := r.PostFormValue("title")
		author := r.PostFormValue("author")

		if err := svc.RemoveBook(r.Context(), token, title, author); err != nil {
			if errors.Is(err, session.ErrNotAuthenticated) {
				http.Error(w, "Not logged in", http.StatusUnauthorized)
				return
			}
			logger.Error("Failed to delete book", "error", err)
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	})
}

func logoutHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(sessionCookie); err == nil {
			svc.Logout(c.Value)
		}
		clearSession(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}
