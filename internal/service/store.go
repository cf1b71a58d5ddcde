package service

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/errs"
)

// storeError maps a store error onto the error taxonomy and logs the ones
// that will surface as internal errors.
func storeError(log *zap.Logger, err error, entity string) error {
	mapped := errs.FromDB(err, entity)
	if errs.StatusOf(mapped) >= http.StatusInternalServerError {
		log.Error("store failure", zap.String("entity", entity), zap.Error(err))
	}
	return mapped
}
