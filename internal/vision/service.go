package vision

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// Service extracts text from receipt images through the Cloud Vision API.
type Service struct {
	srv *vision.Service
}

func NewService(credentialsJSON string) (*Service, error) {
	config, err := google.JWTConfigFromJSON(
		[]byte(credentialsJSON),
		vision.CloudPlatformScope,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to parse vision credentials: %v", err)
	}

	client := config.Client(context.Background())

	srv, err := vision.NewService(context.Background(), option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create vision client: %v", err)
	}

	return &Service{srv: srv}, nil
}

// ExtractText runs document text detection on one image and returns the full
// recognized text. An image with no detectable text yields an empty string.
func (s *Service) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image: &vision.Image{
				Content: base64.StdEncoding.EncodeToString(imageData),
			},
			Features: []*vision.Feature{
				{Type: "DOCUMENT_TEXT_DETECTION"},
			},
		}},
	}

	resp, err := s.srv.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("vision annotate failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return "", nil
	}

	r := resp.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("vision annotate failed: %s", r.Error.Message)
	}
	if r.FullTextAnnotation == nil {
		return "", nil
	}

	return r.FullTextAnnotation.Text, nil
}
