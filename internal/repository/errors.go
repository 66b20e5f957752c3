package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
