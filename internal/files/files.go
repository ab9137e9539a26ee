package files

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrGettingFileFromURL = errors.New("error getting file from url")
)

// IsURL checks if a path is a URL (starts with http:// or https://).
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// GetFileContentsFromURL fetches file contents from a URL.
func GetFileContentsFromURL(client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrGettingFileFromURL
	}

	return io.ReadAll(resp.Body)
}

// ReadFileOrURL reads content from either a local file path or a URL.
// If the path starts with http:// or https://, it fetches from the URL.
// Otherwise, it reads from the local file system.
func ReadFileOrURL(path string) ([]byte, error) {
	if IsURL(path) {
		return GetFileContentsFromURL(nil, path)
	}
	return os.ReadFile(path)
}

// SaveFile saves a file to the specified path.
// If the destination directory doesn't exist, it will be created.
// The contents are written to a temporary file in the destination directory
// first and then renamed, so the target never holds a partial write.
func SaveFile(filePath string, data []byte) error {
	dirPath := filepath.Dir(filePath)
	// Create directories recursively
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dirPath, filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), filePath)
}

// IsYamlType checks if the content is a valid YAML document.
func IsYamlType(content []byte) bool {
	var yamlData map[string]interface{}
	err := yaml.Unmarshal(content, &yamlData)
	return err == nil
}
