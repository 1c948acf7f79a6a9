package vsat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"vsat-setup/internal/config"
	"vsat-setup/internal/logger"
)

// Client is an authenticated Virtual Satellite REST client. Authorize must
// succeed before any fetch; the access token it yields is sent as a bearer
// token on every subsequent request.
type Client struct {
	BaseURL  string
	Username string
	Password string
	HTTP     *http.Client

	token string
}

// NewClient builds a client from the server section of the config.
func NewClient(srv config.Server) *Client {
	return &Client{
		BaseURL:  srv.BaseURL,
		Username: srv.Username,
		Password: srv.Password,
		HTTP:     http.DefaultClient,
	}
}

// Authorize logs in with username/password and stores the access token.
// A 2xx response without an access_token field still counts as a failed
// login.
func (c *Client) Authorize() error {
	body, err := json.Marshal(map[string]string{
		"username": c.Username,
		"password": c.Password,
	})
	if err != nil {
		return err
	}

	url := c.BaseURL + "/api/authorize"
	resp, err := c.HTTP.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("authorization request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("authorization failed: HTTP status %d", resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode authorization response: %w", err)
	}
	if result.AccessToken == "" {
		return fmt.Errorf("login failed: no access token received")
	}

	c.token = result.AccessToken
	logger.Info("[INFO] Authentication successful\n")
	return nil
}

// get fetches a JSON document from path and decodes it into v.
func (c *Client) get(path string, v any) error {
	if c.token == "" {
		if err := c.Authorize(); err != nil {
			return err
		}
	}

	url := c.BaseURL + path
	logger.Debug("[DEBUG] GET %s\n", url)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("error fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error fetching %s: HTTP status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return nil
}

// Projects lists the projects available on the server.
func (c *Client) Projects() ([]Project, error) {
	var projects []Project
	if err := c.get("/api/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// EntityTypes fetches the entity types of a project.
func (c *Client) EntityTypes(projectID ID) ([]EntityType, error) {
	var types []EntityType
	if err := c.get(fmt.Sprintf("/api/projects/%s/entity-types", projectID), &types); err != nil {
		return nil, err
	}
	return types, nil
}

// Entities fetches the entities of a project. The server wraps the list in
// an {"entities": [...]} envelope.
func (c *Client) Entities(projectID ID) ([]Entity, error) {
	var wrapper struct {
		Entities []Entity `json:"entities"`
	}
	if err := c.get(fmt.Sprintf("/api/projects/%s/entities", projectID), &wrapper); err != nil {
		return nil, err
	}
	if len(wrapper.Entities) == 0 {
		return nil, fmt.Errorf("no entities returned from API")
	}
	return wrapper.Entities, nil
}

// Categories fetches the categories of a project. An empty list is allowed;
// entities without visualization categories simply produce no parts.
func (c *Client) Categories(projectID ID) ([]Category, error) {
	var categories []Category
	if err := c.get(fmt.Sprintf("/api/projects/%s/categories", projectID), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
