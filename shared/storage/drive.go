package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bur98022/cfm-personal-podcast/shared/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveClient publishes run artifacts to Google Drive. It offers the narrow
// contract the pipeline needs: folder resolution by name and parent
// (create-if-absent), byte upload by name, and an existence probe by name.
type DriveClient struct {
	service     *drive.Service
	config      *config.DriveConfig
	oauthConfig *oauth2.Config
	token       *oauth2.Token
}

func NewDriveClient(cfg *config.DriveConfig) (*DriveClient, error) {
	ctx := context.Background()

	// OAuth2 config for the device authorization flow.
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{drive.DriveScope},
		Endpoint:     google.Endpoint,
	}

	token, err := getToken(oauthConfig, cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth token: %w", err)
	}

	// Token source that auto-refreshes and persists refreshed tokens
	tokenSource := &tokenSaver{
		config:    oauthConfig,
		token:     token,
		tokenFile: cfg.TokenFile,
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)

	service, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &DriveClient{
		service:     service,
		config:      cfg,
		oauthConfig: oauthConfig,
		token:       token,
	}, nil
}

// FindOrCreateFolder resolves a folder by name under the given parent,
// creating it when absent, and returns its ID.
func (c *DriveClient) FindOrCreateFolder(ctx context.Context, name, parentID string) (string, error) {
	q := fmt.Sprintf("mimeType='%s' and name='%s' and '%s' in parents and trashed=false",
		folderMimeType, escapeQueryName(name), parentID)

	res, err := c.service.Files.List().Q(q).Fields("files(id,name)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to look up folder %q: %w", name, err)
	}
	if len(res.Files) > 0 {
		return res.Files[0].Id, nil
	}

	created, err := c.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", name, err)
	}

	return created.Id, nil
}

// UploadBytes uploads content as a new file under the given parent folder
// and returns the created file's ID.
func (c *DriveClient) UploadBytes(ctx context.Context, parentID, name string, content []byte, mimeType string) (string, error) {
	created, err := c.service.Files.Create(&drive.File{
		Name:    name,
		Parents: []string{parentID},
	}).Media(bytes.NewReader(content), googleapi.ContentType(mimeType)).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %q: %w", name, err)
	}

	return created.Id, nil
}

// UploadText uploads a UTF-8 text file under the given parent folder.
func (c *DriveClient) UploadText(ctx context.Context, parentID, name, text string) (string, error) {
	return c.UploadBytes(ctx, parentID, name, []byte(text), "text/plain")
}

// Exists reports whether a non-folder file with the given name exists under
// the parent folder.
func (c *DriveClient) Exists(ctx context.Context, parentID, name string) (bool, error) {
	q := fmt.Sprintf("name='%s' and '%s' in parents and mimeType!='%s' and trashed=false",
		escapeQueryName(name), parentID, folderMimeType)

	res, err := c.service.Files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to probe for %q: %w", name, err)
	}

	return len(res.Files) > 0, nil
}

// escapeQueryName strips single quotes so names can't break the Drive query.
func escapeQueryName(name string) string {
	return strings.ReplaceAll(name, "'", "")
}

// tokenSaver wraps an oauth2.TokenSource to automatically save refreshed tokens.
// It intercepts token refresh operations and persists the new token to disk,
// ensuring that refreshed tokens survive application restarts.
type tokenSaver struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenFile string
	mu        sync.Mutex // Protects concurrent token refresh operations
}

// Token implements the oauth2.TokenSource interface. It returns the current
// token, refreshing and persisting it when necessary.
func (ts *tokenSaver) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	tokenSource := ts.config.TokenSource(context.Background(), ts.token)

	newToken, err := tokenSource.Token()
	if err != nil {
		return nil, err
	}

	if newToken.AccessToken != ts.token.AccessToken {
		log.Println("Token refreshed, saving to file")
		ts.token = newToken
		if err := saveToken(ts.tokenFile, newToken); err != nil {
			log.Printf("Warning: Failed to save refreshed token: %v", err)
		}
	}

	return newToken, nil
}

// getToken retrieves an OAuth2 token from disk or initiates the OAuth flow if
// needed. A stored token with a refresh token is kept even when expired; the
// tokenSaver refreshes it transparently.
func getToken(config *oauth2.Config, tokenFile string) (*oauth2.Token, error) {
	tok, err := tokenFromFile(tokenFile)
	if err == nil {
		if tok.RefreshToken != "" {
			log.Printf("Loaded token from file (expires: %v)", tok.Expiry)
			return tok, nil
		}
		if tok.Valid() {
			return tok, nil
		}
	}

	log.Println("Getting new token from web...")
	tok, err = getTokenFromWeb(config)
	if err != nil {
		return nil, err
	}

	if err := saveToken(tokenFile, tok); err != nil {
		log.Printf("Warning: Failed to save token: %v", err)
	}
	return tok, nil
}

func getTokenFromWeb(config *oauth2.Config) (*oauth2.Token, error) {
	tok, err := getTokenWithDeviceFlow(config)
	if err == nil {
		return tok, nil
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		log.Printf("Device authorization response failed (%s): %s", retrieveErr.Response.Status, strings.TrimSpace(string(retrieveErr.Body)))
	} else {
		log.Printf("Device authorization flow failed: %v", err)
	}

	return nil, fmt.Errorf("device authorization failed: %w. Ensure your OAuth client is created as 'TVs and Limited Input devices' and that the Drive API is enabled.", err)
}

func getTokenWithDeviceFlow(config *oauth2.Config) (*oauth2.Token, error) {
	ctx := context.Background()

	resp, err := config.DeviceAuth(ctx, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, fmt.Errorf("unable to start device authorization: %w", err)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 80))
	fmt.Printf("GOOGLE DRIVE DEVICE AUTHORIZATION REQUIRED\n")
	fmt.Printf("%s\n", strings.Repeat("=", 80))
	fmt.Printf("1. Visit %s in your browser (any device works).\n", resp.VerificationURI)
	fmt.Printf("2. Enter this code when prompted: %s\n\n", resp.UserCode)
	fmt.Printf("Waiting for authorization to complete... (Ctrl+C to cancel)\n")
	fmt.Printf("%s\n", strings.Repeat("-", 80))

	tok, err := config.DeviceAccessToken(ctx, resp, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, fmt.Errorf("device authorization did not complete: %w", err)
	}

	fmt.Printf("\n✅ Authorization successful! Token saved.\n")

	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("unable to create token directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode oauth token: %w", err)
	}
	return nil
}
