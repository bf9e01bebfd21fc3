package client

import (
	"fmt"
	"os"

	"github.com/otiai10/gosseract/v2"
)

// TesseractClient wraps the gosseract binding. Each extraction uses a fresh
// gosseract client, so the wrapper itself is safe for concurrent use.
type TesseractClient struct {
	tessdataPrefix string
	language       string
}

func NewTesseractClient(tessdataPrefix, language string) *TesseractClient {
	return &TesseractClient{
		tessdataPrefix: tessdataPrefix,
		language:       language,
	}
}

// ExtractText runs OCR over raw image bytes. The bytes are staged to a temp
// file because gosseract reads its input from disk.
func (tc *TesseractClient) ExtractText(data []byte, ext string) (string, error) {
	tempFile, err := os.CreateTemp("", "prescription-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	tempFile.Close()

	return tc.ExtractTextFromFile(tempFile.Name())
}

// ExtractTextFromFile runs OCR over an image file on disk.
func (tc *TesseractClient) ExtractTextFromFile(filePath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	client.SetTessdataPrefix(tc.tessdataPrefix)

	if err := client.SetLanguage(tc.language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImage(filePath); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR extraction failed: %w", err)
	}

	return text, nil
}
