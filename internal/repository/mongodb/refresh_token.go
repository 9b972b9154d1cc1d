package mongodb

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type refreshTokenRepositoryImpl struct {
	coll *mongo.Collection
}

func NewRefreshTokenRepository(db *database.MongoDB) auth.RefreshTokenRepository {
	return &refreshTokenRepositoryImpl{coll: db.Database.Collection(refreshTokensCollection)}
}

func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (r *refreshTokenRepositoryImpl) CreateRefreshToken(ctx context.Context, employeeID string, token string, expiresAt time.Time, session auth.SessionTrackingRequest) error {
	doc := refreshTokenDocument{
		TokenHash:  hashToken(token),
		EmployeeID: employeeID,
		ExpiresAt:  expiresAt.UTC(),
		UserAgent:  session.UserAgent,
		IPAddress:  session.IPAddress,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "expires_at", Value: -1}})

	var doc refreshTokenDocument
	err := r.coll.FindOne(ctx, bson.M{"token_hash": hashToken(token)}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return true, nil
		}
		return false, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	return doc.RevokedAt != nil || !doc.ExpiresAt.After(time.Now()), nil
}

func (r *refreshTokenRepositoryImpl) revoke(ctx context.Context, filter bson.M) error {
	filter["revoked_at"] = nil
	_, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"revoked_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	return r.revoke(ctx, bson.M{"token_hash": hashToken(token)})
}

func (r *refreshTokenRepositoryImpl) RevokeAllForEmployee(ctx context.Context, employeeID string) error {
	return r.revoke(ctx, bson.M{"employee_id": employeeID})
}

func (r *refreshTokenRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"expires_at": bson.M{"$lte": now.UTC()}},
		bson.M{"revoked_at": bson.M{"$ne": nil}},
	}}
	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	return res.DeletedCount, nil
}
