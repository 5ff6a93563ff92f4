package rbac

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/moazrana/CBMS-sub001/models"
)

// ErrNotFound is returned by stores when a user or role does not exist
// (including soft-deleted users).
var ErrNotFound = errors.New("not found")

// Store is the narrow read surface the authorization core needs. Guards and
// the validate flow go through it on every request; nothing is cached.
type Store interface {
	UserByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	RoleByID(ctx context.Context, id bson.ObjectID) (*models.Role, error)
	RoleByName(ctx context.Context, name string) (*models.Role, error)
}

// MongoStore reads users and roles from their collections. Active users
// only: every user lookup filters deletedAt null.
type MongoStore struct {
	Users *mongo.Collection
	Roles *mongo.Collection
}

func NewMongoStore(users, roles *mongo.Collection) *MongoStore {
	return &MongoStore{Users: users, Roles: roles}
}

func (s *MongoStore) UserByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	err := s.Users.FindOne(ctx, bson.M{"_id": id, "deletedAt": nil}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.Users.FindOne(ctx, bson.M{"email": email, "deletedAt": nil}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) RoleByID(ctx context.Context, id bson.ObjectID) (*models.Role, error) {
	var role models.Role
	err := s.Roles.FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *MongoStore) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := s.Roles.FindOne(ctx, bson.M{"name": name}).Decode(&role)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}
