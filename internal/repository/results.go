package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sentrylabs/veritas/internal/models"
)

const (
	resultsCollection = "similarity_results"
	reportsCollection = "similarity_reports"
)

// ResultsRepository stores candidate verdicts and drive-level reports.
type ResultsRepository struct {
	mongoRepo *MongoRepository
}

func NewResultsRepository(mongoRepo *MongoRepository) *ResultsRepository {
	return &ResultsRepository{mongoRepo: mongoRepo}
}

func (r *ResultsRepository) InsertCandidateResult(ctx context.Context, result *models.CandidateResult) error {
	result.CreatedAt = time.Now()
	if err := r.mongoRepo.InsertOne(ctx, resultsCollection, result); err != nil {
		return fmt.Errorf("failed to insert candidate result: %w", err)
	}
	return nil
}

// UpdateTestReportByDriveID replaces the latest report for a drive,
// creating it when none exists.
func (r *ResultsRepository) UpdateTestReportByDriveID(ctx context.Context, driveID string, report *models.TestReport) error {
	report.CreatedAt = time.Now()

	filter := bson.M{"driveId": driveID}
	update := bson.M{"$set": report}
	opts := options.Update().SetUpsert(true)

	if _, err := r.mongoRepo.UpdateOne(ctx, reportsCollection, filter, update, opts); err != nil {
		return fmt.Errorf("failed to update test report: %w", err)
	}
	return nil
}

func (r *ResultsRepository) GetLatestReportByDriveID(ctx context.Context, driveID string) (*models.TestReport, error) {
	filter := bson.M{"driveId": driveID}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var report models.TestReport
	err := r.mongoRepo.FindOne(ctx, reportsCollection, filter, opts).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find report: %w", err)
	}
	return &report, nil
}

func (r *ResultsRepository) GetCandidateResultsByDriveID(ctx context.Context, driveID string) ([]*models.CandidateResult, error) {
	filter := bson.M{"driveId": driveID}

	cursor, err := r.mongoRepo.FindMany(ctx, resultsCollection, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.CandidateResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode candidate results: %w", err)
	}
	return results, nil
}
