package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// EndpointResult is everything needed to write out an API response, along
// with a more detailed internal message that is logged but not displayed to
// the user.
type EndpointResult struct {
	Status      int
	IsErr       bool
	Resp        interface{}
	InternalMsg string
}

// jsonOK returns an EndpointResult containing an HTTP-200 along with a more
// detailed message (if desired; if none is provided it defaults to a generic
// one) that is not displayed to the user.
func jsonOK(respObj interface{}, internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "OK"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return EndpointResult{
		Status:      http.StatusOK,
		Resp:        respObj,
		InternalMsg: fmt.Sprintf(internalMsgFmt, msgArgs...),
	}
}

// jsonBadRequest returns an EndpointResult containing an HTTP-400 along with
// a more detailed message (if desired; if none is provided it defaults to a
// generic one) that is not displayed to the user.
func jsonBadRequest(userMsg string, internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "bad request"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return EndpointResult{
		Status: http.StatusBadRequest,
		IsErr:  true,
		Resp: ErrorResponse{
			Error:  userMsg,
			Status: http.StatusBadRequest,
		},
		InternalMsg: fmt.Sprintf(internalMsgFmt, msgArgs...),
	}
}

// jsonErr returns an EndpointResult containing the given error status along
// with a more detailed message that is not displayed to the user.
func jsonErr(status int, userMsg string, internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "error"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return EndpointResult{
		Status: status,
		IsErr:  true,
		Resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
		InternalMsg: fmt.Sprintf(internalMsgFmt, msgArgs...),
	}
}

// WriteResponse writes the result out to the given response writer and logs
// the internal message.
func (r EndpointResult) WriteResponse(w http.ResponseWriter, req *http.Request) {
	if r.IsErr {
		log.Printf("ERROR: %s %s: HTTP-%d: %s", req.Method, req.URL.Path, r.Status, r.InternalMsg)
	} else {
		log.Printf("INFO: %s %s: HTTP-%d: %s", req.Method, req.URL.Path, r.Status, r.InternalMsg)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.Status)

	if r.Resp != nil {
		if err := json.NewEncoder(w).Encode(r.Resp); err != nil {
			log.Printf("ERROR: write response for %s %s: %v", req.Method, req.URL.Path, err)
		}
	}
}
