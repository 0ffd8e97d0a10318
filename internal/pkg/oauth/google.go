package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleInformation is the subset of the Google userinfo payload the portal
// needs to match or create an account.
type GoogleInformation struct {
	GoogleID      string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	VerifiedEmail bool   `json:"verified_email"`
}

type GoogleService interface {
	// Enabled reports whether Google login has credentials configured.
	Enabled() bool
	// GenerateState generates a random state string for OAuth2 flows,
	// binding the caller's user agent into it.
	GenerateState(userAgent string) string
	// RedirectURL generates the OAuth2 consent URL carrying the state.
	RedirectURL(state string) string
	// VerifyToken exchanges the authorization code for a token.
	VerifyToken(ctx context.Context, code string) (*oauth2.Token, error)
	// VerifyUser fetches the Google user information for the token.
	VerifyUser(ctx context.Context, token *oauth2.Token) (GoogleInformation, error)
}

type googleService struct {
	config *oauth2.Config
}

func NewGoogleService(clientID, clientSecret, redirectURL string, scopes []string) GoogleService {
	return &googleService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
	}
}

func (g *googleService) Enabled() bool {
	return g.config.ClientID != "" && g.config.ClientSecret != ""
}

func (g *googleService) GenerateState(userAgent string) string {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return ""
	}
	state := fmt.Sprintf("%s.%s", base64.URLEncoding.EncodeToString(nonce), userAgent)
	return base64.URLEncoding.EncodeToString([]byte(state))
}

func (g *googleService) RedirectURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (g *googleService) VerifyToken(ctx context.Context, code string) (*oauth2.Token, error) {
	return g.config.Exchange(ctx, code)
}

func (g *googleService) VerifyUser(ctx context.Context, token *oauth2.Token) (GoogleInformation, error) {
	resp, err := g.config.Client(ctx, token).Get(userinfoEndpoint)
	if err != nil {
		return GoogleInformation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GoogleInformation{}, fmt.Errorf("google userinfo: unexpected status %d", resp.StatusCode)
	}

	var info GoogleInformation
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return GoogleInformation{}, err
	}
	return info, nil
}
