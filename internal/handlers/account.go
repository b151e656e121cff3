package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/account"
	"storefront/internal/credentials"
	"storefront/internal/session"
)

func LoginPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "login.html", gin.H{"otpMode": false})
	}
}

func SignupPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "signup.html", gin.H{"otpMode": false})
	}
}

// signedIn syncs the token cookie and reloads the profile after the store
// gained a token, then sends the browser home.
func signedIn(c *gin.Context, route string, sess *session.Session, opts credentials.CookieOptions, message string) {
	if _, err := credentials.SyncCookie(c, sess.Credentials, opts); err != nil {
		respondWithError(c, http.StatusInternalServerError, route, genericError)
		return
	}
	sess.Profile.Refetch(c.Request.Context())

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": message, "redirect": "/"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Login signs the session in. Unverified accounts get the login page back
// in OTP mode.
func Login(opts credentials.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /login"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		var form account.LoginForm
		if err := c.ShouldBind(&form); err != nil {
			render(c, http.StatusBadRequest, "login.html", gin.H{
				"error": validationMessages(err)[0],
				"email": form.Email,
			})
			return
		}

		result, err := sess.Account.Login(c.Request.Context(), form)
		if err != nil {
			switch account.KindOf(err) {
			case account.KindNotVerified:
				log.Printf("[%s] account needs verification", route)
				render(c, http.StatusOK, "login.html", gin.H{
					"otpMode": true,
					"email":   strings.ToLower(strings.TrimSpace(form.Email)),
					"message": account.MessageOf(err, "Please verify your account"),
				})
			case account.KindTransport, account.KindUnexpected:
				render(c, http.StatusBadGateway, "login.html", gin.H{
					"error": genericError,
					"email": form.Email,
				})
			default:
				render(c, http.StatusUnauthorized, "login.html", gin.H{
					"error": account.MessageOf(err, "Login failed"),
					"email": form.Email,
				})
			}
			return
		}

		signedIn(c, route, sess, opts, result.Message)
	}
}

// Signup registers the account and switches the page to OTP entry.
func Signup() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /signup"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		var form account.SignupForm
		if err := c.ShouldBind(&form); err != nil {
			render(c, http.StatusBadRequest, "signup.html", gin.H{
				"error": validationMessages(err)[0],
				"form":  form,
			})
			return
		}

		result, err := sess.Account.Signup(c.Request.Context(), form)
		if err != nil {
			status := http.StatusBadRequest
			if kind := account.KindOf(err); kind == account.KindTransport || kind == account.KindUnexpected {
				status = http.StatusBadGateway
			}
			render(c, status, "signup.html", gin.H{
				"error": account.MessageOf(err, "Signup failed"),
				"form":  form,
			})
			return
		}

		log.Printf("[%s] otp issued", route)
		render(c, http.StatusOK, "signup.html", gin.H{
			"otpMode": true,
			"email":   strings.TrimSpace(form.Email),
			"message": result.Message,
		})
	}
}

// VerifyOTP completes signup or a blocked login. The page posting here
// decides which template to show on failure.
func VerifyOTP(opts credentials.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /verify-otp"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		template := "signup.html"
		if c.PostForm("from") == "login" {
			template = "login.html"
		}

		var form account.OTPForm
		if err := c.ShouldBind(&form); err != nil {
			render(c, http.StatusBadRequest, template, gin.H{
				"otpMode": true,
				"email":   form.Email,
				"error":   validationMessages(err)[0],
			})
			return
		}

		result, err := sess.Account.VerifyOTP(c.Request.Context(), form)
		if err != nil {
			render(c, http.StatusBadRequest, template, gin.H{
				"otpMode": true,
				"email":   form.Email,
				"error":   account.MessageOf(err, "Invalid OTP"),
			})
			return
		}

		signedIn(c, route, sess, opts, result.Message)
	}
}

// Logout ends the session with the backend. The token is kept when the
// backend refuses.
func Logout(opts credentials.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /logout"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		if err := sess.Account.Logout(c.Request.Context()); err != nil {
			respondWithError(c, http.StatusBadGateway, route, account.MessageOf(err, "Logout failed"))
			return
		}
		if _, err := credentials.SyncCookie(c, sess.Credentials, opts); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, genericError)
			return
		}
		sess.Profile.Refetch(c.Request.Context())
		sess.Cart.Clear()

		if wantsJSON(c) {
			c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": "/login"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/login")
	}
}
