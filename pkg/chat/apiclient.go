package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// APIClient implements Handler over the REST endpoints, authenticating with a
// bearer token.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{},
	}
}

func (c *APIClient) AnalyzeText(ctx context.Context, symptoms string) (string, error) {
	body, err := json.Marshal(map[string]string{"symptoms": symptoms})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/diagnosis/v1/text", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var res struct {
		Diagnosis string `json:"diagnosis"`
	}
	if err := c.do(req, &res); err != nil {
		return "", err
	}
	return res.Diagnosis, nil
}

func (c *APIClient) AnalyzeImage(ctx context.Context, att Attachment) (string, string, error) {
	body, contentType, err := multipartBody("image", att)
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/diagnosis/v1/image", body)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", contentType)

	var res struct {
		Diagnosis string `json:"diagnosis"`
		ImageData string `json:"imageData"`
	}
	if err := c.do(req, &res); err != nil {
		return "", "", err
	}
	return res.Diagnosis, res.ImageData, nil
}

func (c *APIClient) TranscribeAudio(ctx context.Context, att Attachment) (string, *string, error) {
	body, contentType, err := multipartBody("audio", att)
	if err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/diagnosis/v1/audio", body)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var res struct {
		Transcription string  `json:"transcription"`
		Diagnosis     *string `json:"diagnosis"`
	}
	if err := c.do(req, &res); err != nil {
		return "", nil, err
	}
	return res.Transcription, res.Diagnosis, nil
}

func (c *APIClient) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func multipartBody(field string, att Attachment) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	part, err := writer.CreateFormFile(field, att.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(att.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}
