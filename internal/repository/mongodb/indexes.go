package mongodb

import (
	"context"
	"fmt"

	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	employeeIDIndex = "employees_employee_id_key"
	emailIndex      = "employees_email_key"
)

// EnsureIndexes creates the unique and lookup indexes both collections rely on.
// It is idempotent.
func EnsureIndexes(ctx context.Context, db *database.MongoDB) error {
	employees := []mongo.IndexModel{
		{Keys: bson.D{{Key: "employee_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName(employeeIDIndex)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(emailIndex)},
		{Keys: bson.D{{Key: "department_id", Value: 1}}},
		{Keys: bson.D{{Key: "manager_id", Value: 1}}},
		{Keys: bson.D{{Key: "team_lead_id", Value: 1}}},
		{Keys: bson.D{{Key: "otp_expires_at", Value: 1}}},
	}
	if _, err := db.Database.Collection(employeesCollection).Indexes().CreateMany(ctx, employees); err != nil {
		return fmt.Errorf("failed to create employee indexes: %w", err)
	}

	tokens := []mongo.IndexModel{
		{Keys: bson.D{{Key: "token_hash", Value: 1}}},
		{Keys: bson.D{{Key: "employee_id", Value: 1}}},
	}
	if _, err := db.Database.Collection(refreshTokensCollection).Indexes().CreateMany(ctx, tokens); err != nil {
		return fmt.Errorf("failed to create refresh token indexes: %w", err)
	}
	return nil
}
