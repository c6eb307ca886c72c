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

type medicationDocument struct {
	ID          string    `firestore:"id"`
	UserID      string    `firestore:"user_id"`
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	Dosage      string    `firestore:"dosage"`
	DosesTaken  string    `firestore:"doses_taken"`
	TotalDoses  string    `firestore:"total_doses"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func (d *medicationDocument) toModel() *model.Medication {
	return &model.Medication{
		ID:          types.EventID(d.ID),
		UserID:      types.UserID(d.UserID),
		Name:        d.Name,
		Description: d.Description,
		Dosage:      d.Dosage,
		DosesTaken:  d.DosesTaken,
		TotalDoses:  d.TotalDoses,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// Medications live in their own collection keyed by event ID with a
// user_id field, not embedded in the user document. An append is a
// single-document create, so two concurrent appends for one user cannot
// overwrite each other.
type medicationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMedicationRepository(client *firestore.Client) *medicationRepository {
	return &medicationRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *medicationRepository) medicationsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_medications"
	}
	return "medications"
}

func (r *medicationRepository) Append(ctx context.Context, med *model.Medication) (*model.Medication, error) {
	now := time.Now().UTC()
	doc := &medicationDocument{
		ID:          med.ID.String(),
		UserID:      med.UserID.String(),
		Name:        med.Name,
		Description: med.Description,
		Dosage:      med.Dosage,
		DosesTaken:  med.DosesTaken,
		TotalDoses:  med.TotalDoses,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	docRef := r.client.Collection(r.medicationsCollection()).Doc(doc.ID)
	if _, err := docRef.Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to append medication",
			goerr.T(types.TagPersistence),
			goerr.V(types.UserIDKey, med.UserID),
			goerr.V(types.EventIDKey, med.ID))
	}

	return doc.toModel(), nil
}

func (r *medicationRepository) Get(ctx context.Context, userID types.UserID, id types.EventID) (*model.Medication, error) {
	docRef := r.client.Collection(r.medicationsCollection()).Doc(id.String())
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get medication",
			goerr.T(types.TagPersistence), goerr.V(types.EventIDKey, id))
	}

	var medDoc medicationDocument
	if err := doc.DataTo(&medDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal medication",
			goerr.T(types.TagPersistence), goerr.V(types.EventIDKey, id))
	}

	// Event IDs are globally unique, but the record must belong to the
	// requesting user.
	if medDoc.UserID != userID.String() {
		return nil, nil
	}

	return medDoc.toModel(), nil
}

func (r *medicationRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Medication, error) {
	iter := r.client.Collection(r.medicationsCollection()).
		Where("user_id", "==", userID.String()).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var meds []*model.Medication
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate medications",
				goerr.T(types.TagPersistence), goerr.V(types.UserIDKey, userID))
		}

		var medDoc medicationDocument
		if err := doc.DataTo(&medDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal medication",
				goerr.T(types.TagPersistence), goerr.V(types.UserIDKey, userID))
		}

		meds = append(meds, medDoc.toModel())
	}

	return meds, nil
}

func (r *medicationRepository) FindByName(ctx context.Context, userID types.UserID, name string) ([]*model.Medication, error) {
	iter := r.client.Collection(r.medicationsCollection()).
		Where("user_id", "==", userID.String()).
		Where("name", "==", name).
		Documents(ctx)
	defer iter.Stop()

	var meds []*model.Medication
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query medications by name",
				goerr.T(types.TagPersistence),
				goerr.V(types.UserIDKey, userID),
				goerr.V("name", name))
		}

		var medDoc medicationDocument
		if err := doc.DataTo(&medDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal medication",
				goerr.T(types.TagPersistence), goerr.V(types.UserIDKey, userID))
		}

		meds = append(meds, medDoc.toModel())
	}

	return meds, nil
}

func (r *medicationRepository) UpdateDescription(ctx context.Context, userID types.UserID, id types.EventID, description string) (*model.Medication, error) {
	docRef := r.client.Collection(r.medicationsCollection()).Doc(id.String())

	now := time.Now().UTC()
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "description", Value: description},
		{Path: "updated_at", Value: now},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrMedicationNotFound, "medication not found",
				goerr.T(types.TagNotFound),
				goerr.V(types.UserIDKey, userID),
				goerr.V(types.EventIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to update medication description",
			goerr.T(types.TagPersistence), goerr.V(types.EventIDKey, id))
	}

	return r.Get(ctx, userID, id)
}

func (r *medicationRepository) SaveAll(ctx context.Context, appends []*model.Medication, updates map[types.EventID]string) error {
	if len(appends) == 0 && len(updates) == 0 {
		return nil
	}

	now := time.Now().UTC()
	batch := r.client.Batch()

	for _, med := range appends {
		doc := &medicationDocument{
			ID:          med.ID.String(),
			UserID:      med.UserID.String(),
			Name:        med.Name,
			Description: med.Description,
			Dosage:      med.Dosage,
			DosesTaken:  med.DosesTaken,
			TotalDoses:  med.TotalDoses,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		batch.Create(r.client.Collection(r.medicationsCollection()).Doc(doc.ID), doc)
	}

	for id, description := range updates {
		batch.Update(r.client.Collection(r.medicationsCollection()).Doc(id.String()), []firestore.Update{
			{Path: "description", Value: description},
			{Path: "updated_at", Value: now},
		})
	}

	if _, err := batch.Commit(ctx); err != nil {
		return goerr.Wrap(err, "failed to commit medication batch",
			goerr.T(types.TagPersistence),
			goerr.V("appends", len(appends)),
			goerr.V("updates", len(updates)))
	}

	return nil
}
