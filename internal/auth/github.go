package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	githubAuthorizeURL = "https://github.com/login/oauth/authorize"
	githubTokenURL     = "https://github.com/login/oauth/access_token"
	githubUserURL      = "https://api.github.com/user"
	githubEmailsURL    = "https://api.github.com/user/emails"
)

var githubClient = &http.Client{Timeout: 10 * time.Second}

type GithubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// ProviderID returns the GitHub account id as the string we key users on.
func (u GithubUser) ProviderID() string {
	return strconv.FormatInt(u.ID, 10)
}

func GithubAuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", os.Getenv("GITHUB_CLIENT_ID"))
	params.Set("redirect_uri", os.Getenv("GITHUB_REDIRECT_URL"))
	params.Set("scope", "read:user user:email")
	params.Set("state", state)

	return githubAuthorizeURL + "?" + params.Encode()
}

func ExchangeGithubCode(code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", os.Getenv("GITHUB_CLIENT_ID"))
	form.Set("client_secret", os.Getenv("GITHUB_CLIENT_SECRET"))
	form.Set("code", code)

	req, err := http.NewRequest(http.MethodPost, githubTokenURL, strings.NewReader(form.Encode()))

	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := githubClient.Do(req)

	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	if body.Error != "" || body.AccessToken == "" {
		return "", fmt.Errorf("token exchange failed: %s", body.Error)
	}

	return body.AccessToken, nil
}

// FetchGithubUser retrieves the authenticated user's profile. The raw
// payload is returned alongside the parsed struct so callers can persist
// it as-is. Falls back to the primary verified email when the profile
// email is private.
func FetchGithubUser(accessToken string) (*GithubUser, []byte, error) {
	raw, err := githubGet(githubUserURL, accessToken)

	if err != nil {
		return nil, nil, err
	}

	var user GithubUser

	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, nil, err
	}

	if user.Name == "" {
		user.Name = user.Login
	}

	if user.Email == "" {
		email, err := fetchPrimaryEmail(accessToken)

		if err != nil {
			return nil, nil, err
		}

		user.Email = email
	}

	if user.Email == "" {
		return nil, nil, fmt.Errorf("no email available for GitHub user %s", user.Login)
	}

	return &user, raw, nil
}

func fetchPrimaryEmail(accessToken string) (string, error) {
	raw, err := githubGet(githubEmailsURL, accessToken)

	if err != nil {
		return "", err
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}

	if err := json.Unmarshal(raw, &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}

	return "", nil
}

func githubGet(endpoint, accessToken string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)

	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := githubClient.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d for %s", resp.StatusCode, endpoint)
	}

	return io.ReadAll(resp.Body)
}
