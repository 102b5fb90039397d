// internal/app/store/sessions/store.go
package sessions

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// End reasons.
const (
	EndLogout   = "logout"
	EndInactive = "inactive"
	EndExpired  = "expired" // API token expired
)

// Session records one staff member's time signed in to the dashboard.
// UserID is the club API's user id.
type Session struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID string             `bson:"user_id"`
	Email  string             `bson:"email,omitempty"`
	Role   string             `bson:"role,omitempty"`

	LoginAt      time.Time  `bson:"login_at"`
	LogoutAt     *time.Time `bson:"logout_at,omitempty"`
	LastActiveAt time.Time  `bson:"last_active_at"`
	CurrentPage  string     `bson:"current_page,omitempty"`
	EndReason    string     `bson:"end_reason,omitempty"`

	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	DurationSecs int64 `bson:"duration_secs,omitempty"`
}

// Store manages dashboard activity sessions.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

// New creates a new sessions Store.
func New(db *mongo.Database) *Store {
	return &Store{
		c:   db.Collection("dashboard_sessions"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "logout_at", Value: 1}, {Key: "last_active_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_active"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "login_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_user"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create starts a session for userID, closing any the user left open.
func (s *Store) Create(ctx context.Context, userID, email, role, ip, userAgent string) (Session, error) {
	now := s.now()

	if _, err := s.closeWhere(ctx, bson.M{"user_id": userID, "logout_at": nil}, EndInactive, now); err != nil {
		return Session{}, err
	}

	sess := Session{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Email:        email,
		Role:         role,
		LoginAt:      now,
		LastActiveAt: now,
		IP:           ip,
		UserAgent:    userAgent,
	}
	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Close ends a session. Closing an already closed session is a no-op.
func (s *Store) Close(ctx context.Context, id primitive.ObjectID, reason string) error {
	_, err := s.closeWhere(ctx, bson.M{"_id": id, "logout_at": nil}, reason, s.now())
	return err
}

// Touch records activity on an open session. It reports false when the
// session is unknown or already closed.
func (s *Store) Touch(ctx context.Context, id primitive.ObjectID, page string) (bool, error) {
	set := bson.M{"last_active_at": s.now()}
	if page != "" {
		set["current_page"] = page
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "logout_at": nil}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// GetByID retrieves a session by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (Session, error) {
	var sess Session
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	return sess, err
}

// GetByUser returns a user's most recent sessions, newest first.
func (s *Store) GetByUser(ctx context.Context, userID string, limit int64) ([]Session, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "login_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Session
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CloseInactive closes open sessions idle longer than threshold and
// returns how many it closed.
func (s *Store) CloseInactive(ctx context.Context, threshold time.Duration) (int64, error) {
	now := s.now()
	return s.closeWhere(ctx, bson.M{
		"logout_at":      nil,
		"last_active_at": bson.M{"$lt": now.Add(-threshold)},
	}, EndInactive, now)
}

// CountActive counts open sessions seen within threshold.
func (s *Store) CountActive(ctx context.Context, threshold time.Duration) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"logout_at":      nil,
		"last_active_at": bson.M{"$gte": s.now().Add(-threshold)},
	})
}

// closeWhere stamps logout_at, end_reason and duration_secs on every
// matching session. Duration is computed server-side from login_at.
func (s *Store) closeWhere(ctx context.Context, filter bson.M, reason string, now time.Time) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"logout_at":  now,
			"end_reason": reason,
			"duration_secs": bson.M{"$toLong": bson.M{
				"$divide": bson.A{bson.M{"$subtract": bson.A{now, "$login_at"}}, 1000},
			}},
		}}},
	}
	res, err := s.c.UpdateMany(ctx, filter, pipeline)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// IsNotFound reports whether err means the session does not exist.
func IsNotFound(err error) bool { return errors.Is(err, mongo.ErrNoDocuments) }
