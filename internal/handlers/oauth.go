package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskmate-dev/taskmate/db"
	"github.com/taskmate-dev/taskmate/internal/auth"
	"github.com/taskmate-dev/taskmate/internal/models"
	"gorm.io/gorm"
)

const stateCookieName = "oauth_state"

// GithubLogin starts the OAuth flow: a random state value is pinned in a
// short-lived cookie and echoed back by GitHub on the callback.
func GithubLogin(ctx *gin.Context) {
	state := uuid.NewString()

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Domain:   cookieDomain(),
		MaxAge:   600,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	ctx.Redirect(http.StatusTemporaryRedirect, auth.GithubAuthorizeURL(state))
}

func GithubCallback(ctx *gin.Context) {
	state := ctx.Query("state")
	cookieState, err := ctx.Cookie(stateCookieName)

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cookieDomain(),
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if err != nil || state == "" || state != cookieState {
		log.Printf("OAuth state mismatch: %v", err)
		redirectWithError(ctx, "invalid_state")
		return
	}

	code := ctx.Query("code")

	if code == "" {
		redirectWithError(ctx, "missing_code")
		return
	}

	accessToken, err := auth.ExchangeGithubCode(code)

	if err != nil {
		log.Printf("Failed to exchange GitHub code: %v", err)
		redirectWithError(ctx, "exchange_failed")
		return
	}

	githubUser, rawProfile, err := auth.FetchGithubUser(accessToken)

	if err != nil {
		log.Printf("Failed to fetch GitHub user: %v", err)
		redirectWithError(ctx, "profile_failed")
		return
	}

	user, err := findOrCreateGithubUser(githubUser, rawProfile)

	if err != nil {
		log.Printf("Failed to find or create user: %v", err)
		redirectWithError(ctx, "signin_failed")
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		redirectWithError(ctx, "signin_failed")
		return
	}

	setSessionCookie(ctx, token)
	ctx.Redirect(http.StatusFound, homeURL())
}

// findOrCreateGithubUser resolves the internal account for a GitHub
// profile. Lookup order: by GitHub id, then by email (linking a
// password account to GitHub on first OAuth sign-in), then create.
// Profile fields are refreshed on every sign-in.
func findOrCreateGithubUser(githubUser *auth.GithubUser, rawProfile []byte) (*models.User, error) {
	providerID := githubUser.ProviderID()

	var user models.User

	err := db.DB.Where("github_id = ?", providerID).First(&user).Error

	if err == nil {
		user.Name = githubUser.Name
		user.Email = githubUser.Email
		user.Image = githubUser.AvatarURL
		user.ProviderData = rawProfile

		if err := db.DB.Save(&user).Error; err != nil {
			return nil, err
		}

		return &user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = db.DB.Where("email = ?", githubUser.Email).First(&user).Error

	if err == nil {
		user.GithubID = &providerID
		user.Name = githubUser.Name
		user.Image = githubUser.AvatarURL
		user.ProviderData = rawProfile

		if err := db.DB.Save(&user).Error; err != nil {
			return nil, err
		}

		return &user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		Name:         githubUser.Name,
		Email:        githubUser.Email,
		Image:        githubUser.AvatarURL,
		GithubID:     &providerID,
		ProviderData: rawProfile,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	if err := bootstrapCategories(user.ID); err != nil {
		log.Printf("Failed to bootstrap categories for user %d: %v", user.ID, err)
	}

	return &user, nil
}

func homeURL() string {
	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		return clientURL
	}

	return "/"
}

func redirectWithError(ctx *gin.Context, code string) {
	ctx.Redirect(http.StatusFound, "/login?error="+code)
}
