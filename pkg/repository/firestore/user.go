package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userDocument struct {
	ID        string    `firestore:"id"`
	Email     string    `firestore:"email"`
	Premium   bool      `firestore:"premium"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:        types.UserID(d.ID),
		Email:     d.Email,
		Premium:   d.Premium,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *userRepository) usersCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_users"
	}
	return "users"
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	docRef := r.client.Collection(r.usersCollection()).Doc(id.String())
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrUserNotFound, "user not found",
				goerr.T(types.TagNotFound), goerr.V(types.UserIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get user",
			goerr.T(types.TagPersistence), goerr.V(types.UserIDKey, id))
	}

	var userDoc userDocument
	if err := doc.DataTo(&userDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user",
			goerr.T(types.TagPersistence), goerr.V(types.UserIDKey, id))
	}

	return userDoc.toModel(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	iter := r.client.Collection(r.usersCollection()).
		Where("email", "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(types.ErrUserNotFound, "user not found",
			goerr.T(types.TagNotFound), goerr.V("email", email))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by email",
			goerr.T(types.TagPersistence), goerr.V("email", email))
	}

	var userDoc userDocument
	if err := doc.DataTo(&userDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user",
			goerr.T(types.TagPersistence), goerr.V("email", email))
	}

	return userDoc.toModel(), nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now().UTC()
	doc := &userDocument{
		ID:        user.ID.String(),
		Email:     user.Email,
		Premium:   user.Premium,
		CreatedAt: now,
		UpdatedAt: now,
	}

	docRef := r.client.Collection(r.usersCollection()).Doc(doc.ID)
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create user",
			goerr.T(types.TagPersistence), goerr.V(types.UserIDKey, user.ID))
	}

	return doc.toModel(), nil
}

func (r *userRepository) SetPremium(ctx context.Context, id types.UserID, premium bool) (*model.User, error) {
	docRef := r.client.Collection(r.usersCollection()).Doc(id.String())

	now := time.Now().UTC()
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "premium", Value: premium},
		{Path: "updated_at", Value: now},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrUserNotFound, "user not found",
				goerr.T(types.TagNotFound), goerr.V(types.UserIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to update premium flag",
			goerr.T(types.TagPersistence), goerr.V(types.UserIDKey, id))
	}

	return r.Get(ctx, id)
}
