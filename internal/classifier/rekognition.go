// Package classifier provides ImageClassifier implementations for the
// moderation engine.
package classifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"

	"closetguard/internal/moderation"
)

// Rekognition classifies images stored in S3 using AWS Rekognition
// moderation label detection.
type Rekognition struct {
	api    rekognitioniface.RekognitionAPI
	bucket string
}

var _ moderation.ImageClassifier = (*Rekognition)(nil)

// NewRekognition creates a classifier for objects in the given S3 bucket.
func NewRekognition(sess *session.Session, bucket string) *Rekognition {
	return &Rekognition{api: rekognition.New(sess), bucket: bucket}
}

// NewRekognitionWithAPI creates a classifier over an explicit API client.
// Intended for tests that substitute the AWS client.
func NewRekognitionWithAPI(api rekognitioniface.RekognitionAPI, bucket string) *Rekognition {
	return &Rekognition{api: api, bucket: bucket}
}

// DetectLabels runs DetectModerationLabels against the object key and
// flattens the response, preserving the classifier's ordering.
func (r *Rekognition) DetectLabels(ctx context.Context, imageRef string, minConfidence float64) ([]moderation.Label, error) {
	out, err := r.api.DetectModerationLabelsWithContext(ctx, &rekognition.DetectModerationLabelsInput{
		Image: &rekognition.Image{
			S3Object: &rekognition.S3Object{
				Bucket: aws.String(r.bucket),
				Name:   aws.String(imageRef),
			},
		},
		MinConfidence: aws.Float64(minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("detect moderation labels: %w", err)
	}

	labels := make([]moderation.Label, 0, len(out.ModerationLabels))
	for _, l := range out.ModerationLabels {
		labels = append(labels, moderation.Label{
			Name:       aws.StringValue(l.Name),
			Confidence: aws.Float64Value(l.Confidence),
		})
	}
	return labels, nil
}
