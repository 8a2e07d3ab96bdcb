// Package handlers provides HTTP request handlers for the control API.
package handlers

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kurb-simulator/peripheral/internal/api/middleware"
	"github.com/kurb-simulator/peripheral/internal/gatt"
)

// AttributeValue is the read response: the characteristic payload, hex
// encoded.
type AttributeValue struct {
	Attribute string `json:"attribute"`
	Data      string `json:"data"`
}

// AttributeWrite is the write request body.
type AttributeWrite struct {
	Data string `json:"data"`
}

// ReadAttribute returns a handler serving characteristic reads. Reads
// never fail in the peripheral role, so this always answers 200.
func ReadAttribute(bridge *gatt.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uuid := mux.Vars(r)["uuid"]
		payload := bridge.HandleRead(uuid)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AttributeValue{
			Attribute: uuid,
			Data:      hex.EncodeToString(payload),
		})
	}
}

// WriteAttribute returns a handler accepting characteristic writes.
// The body must be JSON with a hex data field; malformed hex is a
// transport-level 400. A well-formed write is always accepted (202):
// per the peripheral contract, payloads the bridge cannot decode are
// logged and dropped without a fault.
func WriteAttribute(bridge *gatt.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uuid := mux.Vars(r)["uuid"]

		var body AttributeWrite
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "invalid JSON body")
			return
		}

		payload, err := hex.DecodeString(body.Data)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "data must be hex encoded")
			return
		}

		bridge.HandleWrite(uuid, payload)
		w.WriteHeader(http.StatusAccepted)
	}
}
