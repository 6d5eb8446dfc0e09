package services

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// QRService renders share codes for page URLs.
type QRService struct {
	baseURL string
}

func NewQRService(baseURL string) *QRService {
	return &QRService{baseURL: strings.TrimRight(baseURL, "/")}
}

// PageURL builds the shareable URL for a page name.
func (s *QRService) PageURL(page string) string {
	return s.baseURL + "/" + page
}

// GeneratePNG returns a QR code PNG encoding the page's share URL.
func (s *QRService) GeneratePNG(page string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(s.PageURL(page), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
