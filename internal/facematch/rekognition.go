package facematch

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"go.uber.org/zap"

	"github.com/example/spotalert/internal/logging"
)

const (
	similarityThreshold = 90.0
	maxMatches          = 5
)

// RekognitionClient implements Client on top of AWS Rekognition.
type RekognitionClient struct {
	api          *rekognition.Client
	collectionID string
	logger       *zap.Logger
}

// NewRekognitionClient builds a face search client bound to one collection.
func NewRekognitionClient(cfg aws.Config, collectionID string, logger *zap.Logger) *RekognitionClient {
	return &RekognitionClient{
		api:          rekognition.NewFromConfig(cfg),
		collectionID: collectionID,
		logger:       logger.Named("facematch"),
	}
}

// EnsureCollection creates the reference collection on first use.
func (c *RekognitionClient) EnsureCollection(ctx context.Context) error {
	_, err := c.api.CreateCollection(ctx, &rekognition.CreateCollectionInput{
		CollectionId: aws.String(c.collectionID),
	})
	if err != nil {
		var exists *types.ResourceAlreadyExistsException
		if errors.As(err, &exists) {
			return nil
		}
		wrapped := logging.NewOperationError("facematch.create_collection", "", err)
		c.logger.Error("failed to create collection", zap.Error(wrapped), zap.String("collection", c.collectionID))
		return wrapped
	}
	c.logger.Info("created face collection", zap.String("collection", c.collectionID))
	return nil
}

// Search runs a face search against the collection. Rekognition rejects
// images without a detectable face; that surfaces as an empty match list
// rather than an ingestion failure.
func (c *RekognitionClient) Search(ctx context.Context, imageBytes []byte) ([]Match, error) {
	out, err := c.api.SearchFacesByImage(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(c.collectionID),
		Image:              &types.Image{Bytes: imageBytes},
		FaceMatchThreshold: aws.Float32(similarityThreshold),
		MaxFaces:           aws.Int32(maxMatches),
	})
	if err != nil {
		var invalid *types.InvalidParameterException
		if errors.As(err, &invalid) {
			c.logger.Info("no searchable face in image", zap.String("collection", c.collectionID))
			return nil, nil
		}
		wrapped := logging.NewOperationError("facematch.search", "", err)
		c.logger.Error("face search failed", zap.Error(wrapped), zap.String("collection", c.collectionID))
		return nil, wrapped
	}

	matches := make([]Match, 0, len(out.FaceMatches))
	for _, fm := range out.FaceMatches {
		m := Match{Similarity: aws.ToFloat32(fm.Similarity)}
		if fm.Face != nil {
			m.FaceID = aws.ToString(fm.Face.FaceId)
			m.ExternalID = aws.ToString(fm.Face.ExternalImageId)
		}
		matches = append(matches, m)
	}
	return matches, nil
}
