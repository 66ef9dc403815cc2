package server

import (
	"database/sql"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// storeError converts a store-layer error into a status error. The store
// signals "not found" with sql.ErrNoRows; everything else is internal.
func storeError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return status.Errorf(codes.NotFound, "%s not found", entity)
	}
	return status.Errorf(codes.Internal, "failed to get %s: %v", entity, err)
}

// httpStatus maps a status code to its HTTP equivalent. All rejected
// mutations (bad input, duplicates, cycles, blocked transitions) surface
// as 400; only missing records get 404.
func httpStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.NotFound:
		return http.StatusNotFound
	case codes.InvalidArgument, codes.AlreadyExists, codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes a service-layer error as a JSON HTTP response,
// translating status codes and the inputError/sql.ErrNoRows sentinels.
func writeServiceError(w http.ResponseWriter, err error, entity string) {
	var ie inputError
	if errors.As(err, &ie) {
		writeError(w, http.StatusBadRequest, ie.Error())
		return
	}
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, entity+" not found")
		return
	}
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		code := httpStatus(st.Code())
		msg := st.Message()
		if code == http.StatusInternalServerError {
			// Internal detail stays in the logs, not the response.
			msg = "internal error"
		}
		writeError(w, code, msg)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}
