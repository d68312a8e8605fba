package storage

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// Client wraps Supabase storage for project media. Uploads land under
// users/{user_id}/projects/{project_id}/{folder}/{filename} so that a
// project's files can be removed with a single prefix listing.
type Client struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewClient(supabaseURL, serviceRoleKey, bucket string) (*Client, error) {
	baseURL := supabaseURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &Client{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// UploadFile stores data under the project's folder and returns the
// storage path plus its public URL.
func (c *Client) UploadFile(userID, projectID uuid.UUID, folder, filename, contentType string, data []byte) (string, string, error) {
	storagePath := fmt.Sprintf("users/%s/projects/%s/%s/%s",
		userID.String(), projectID.String(), folder, filename)

	upsert := true
	_, err := c.client.UploadFile(c.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload file: %w", err)
	}

	return storagePath, c.GetPublicURL(storagePath), nil
}

func (c *Client) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		c.baseURL, c.bucket, storagePath)
}

func (c *Client) DeleteFile(storagePath string) error {
	_, err := c.client.RemoveFile(c.bucket, []string{storagePath})
	return err
}

// DeleteProjectFiles removes every object under the project's prefix.
func (c *Client) DeleteProjectFiles(userID, projectID uuid.UUID) error {
	prefix := fmt.Sprintf("users/%s/projects/%s/", userID.String(), projectID.String())

	files, err := c.client.ListFiles(c.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(files) > 0 {
		filePaths := make([]string, len(files))
		for i, file := range files {
			filePaths[i] = file.Name
		}
		if _, err := c.client.RemoveFile(c.bucket, filePaths); err != nil {
			return fmt.Errorf("failed to delete files: %w", err)
		}
	}

	return nil
}

func (c *Client) DownloadFile(storagePath string) ([]byte, error) {
	data, err := c.client.DownloadFile(c.bucket, storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	return data, nil
}
