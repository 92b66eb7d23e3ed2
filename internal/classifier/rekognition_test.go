package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closetguard/internal/moderation"
)

// fakeRekognitionAPI stubs the one Rekognition call the classifier makes.
type fakeRekognitionAPI struct {
	rekognitioniface.RekognitionAPI

	input  *rekognition.DetectModerationLabelsInput
	output *rekognition.DetectModerationLabelsOutput
	err    error
}

func (f *fakeRekognitionAPI) DetectModerationLabelsWithContext(ctx aws.Context, input *rekognition.DetectModerationLabelsInput, opts ...request.Option) (*rekognition.DetectModerationLabelsOutput, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func TestRekognition_DetectLabels(t *testing.T) {
	api := &fakeRekognitionAPI{output: &rekognition.DetectModerationLabelsOutput{
		ModerationLabels: []*rekognition.ModerationLabel{
			{Name: aws.String("EXPLICIT"), Confidence: aws.Float64(97.5)},
			{Name: aws.String("SUGGESTIVE"), Confidence: aws.Float64(80)},
		},
	}}
	c := NewRekognitionWithAPI(api, "content-bucket")

	labels, err := c.DetectLabels(context.Background(), "uploads/abc.jpg", 60)
	require.NoError(t, err)
	assert.Equal(t, []moderation.Label{
		{Name: "EXPLICIT", Confidence: 97.5},
		{Name: "SUGGESTIVE", Confidence: 80},
	}, labels)

	// The object key is looked up in the configured bucket with the
	// requested confidence floor.
	require.NotNil(t, api.input)
	assert.Equal(t, "content-bucket", aws.StringValue(api.input.Image.S3Object.Bucket))
	assert.Equal(t, "uploads/abc.jpg", aws.StringValue(api.input.Image.S3Object.Name))
	assert.Equal(t, 60.0, aws.Float64Value(api.input.MinConfidence))
}

func TestRekognition_DetectLabels_Empty(t *testing.T) {
	api := &fakeRekognitionAPI{output: &rekognition.DetectModerationLabelsOutput{}}
	c := NewRekognitionWithAPI(api, "content-bucket")

	labels, err := c.DetectLabels(context.Background(), "uploads/clean.jpg", 60)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestRekognition_DetectLabels_Error(t *testing.T) {
	api := &fakeRekognitionAPI{err: errors.New("throttled")}
	c := NewRekognitionWithAPI(api, "content-bucket")

	_, err := c.DetectLabels(context.Background(), "uploads/abc.jpg", 60)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detect moderation labels")
}

func TestDisabled_DetectLabels(t *testing.T) {
	_, err := Disabled{}.DetectLabels(context.Background(), "uploads/abc.jpg", 60)
	assert.ErrorIs(t, err, moderation.ErrClassifierUnavailable)
}
