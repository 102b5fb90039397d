// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Mongo keeps dashboard activity sessions and the audit trail; club data
// itself lives behind the API.
type DBDeps struct {
	ClubHubMongoClient   *mongo.Client
	ClubHubMongoDatabase *mongo.Database
}
