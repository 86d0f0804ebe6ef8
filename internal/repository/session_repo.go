package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GauravB09/Diligence-Squared-Assignment/internal/model"
)

// SessionRepo handles MongoDB operations for user survey sessions
type SessionRepo interface {
	GetByUserID(ctx context.Context, userID string) (*model.UserSession, error)
	UpsertSurveyResult(ctx context.Context, session *model.UserSession) error
	SetConversationID(ctx context.Context, userID, conversationID string) error
	SetTranscript(ctx context.Context, userID, transcript string) error
	List(ctx context.Context, limit, offset int64) ([]*model.UserSession, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("sessions"),
	}
}

func (r *sessionRepo) GetByUserID(ctx context.Context, userID string) (*model.UserSession, error) {
	var session model.UserSession
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// UpsertSurveyResult writes one webhook delivery's outcome in a single
// update, so concurrent deliveries for the same user are last-write-wins
// and never interleave partial state.
func (r *sessionRepo) UpsertSurveyResult(ctx context.Context, session *model.UserSession) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"survey_status": session.SurveyStatus,
			"segment":       session.Segment,
			"form_id":       session.FormID,
			"form_token":    session.FormToken,
			"event_id":      session.EventID,
			"submitted_at":  session.SubmittedAt,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"user_id":    session.UserID,
			"created_at": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"user_id": session.UserID}, update,
		options.Update().SetUpsert(true))
	return err
}

func (r *sessionRepo) SetConversationID(ctx context.Context, userID, conversationID string) error {
	update := bson.M{"$set": bson.M{
		"conversation_id": conversationID,
		"updated_at":      time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	return err
}

func (r *sessionRepo) SetTranscript(ctx context.Context, userID, transcript string) error {
	update := bson.M{"$set": bson.M{
		"transcript": transcript,
		"updated_at": time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	return err
}

func (r *sessionRepo) List(ctx context.Context, limit, offset int64) ([]*model.UserSession, error) {
	opts := options.Find().
		SetSort(bson.M{"updated_at": -1}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.UserSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
