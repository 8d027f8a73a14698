package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Encode serializes the full ledger state.
func Encode(d Debt) ([]byte, error) {
	return json.Marshal(d)
}

// Decode parses a serialized ledger.
func Decode(data []byte) (Debt, error) {
	var d Debt
	if err := json.Unmarshal(data, &d); err != nil {
		return Debt{}, fmt.Errorf("decoding ledger: %w", err)
	}
	if d.OriginalAmount.IsNegative() {
		return Debt{}, errors.New("decoding ledger: negative original amount")
	}
	if d.Payments == nil {
		d.Payments = []Payment{}
	}
	return d, nil
}
