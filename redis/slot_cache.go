package redis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmhealthtech/clinic-ops/utils"
)

// Generated slot lists are cached briefly to keep the portal's calendar
// browsing off the database. The cache is best-effort: booking correctness
// never depends on it, and every booking write for a (doctor, date) pair
// invalidates the entry.
const slotCacheTTL = 60 * time.Second

func slotKey(tenantID string, doctorID uint, dateKey string) string {
	return fmt.Sprintf("slots:%s:%d:%s", tenantID, doctorID, dateKey)
}

// GetCachedSlots returns the cached slot list, or ok=false on miss or any
// Redis error.
func GetCachedSlots(tenantID string, doctorID uint, dateKey string) ([]utils.Slot, bool) {
	if Client == nil {
		return nil, false
	}
	payload, err := Client.Get(Ctx, slotKey(tenantID, doctorID, dateKey)).Bytes()
	if err != nil {
		return nil, false
	}
	var slots []utils.Slot
	if err := json.Unmarshal(payload, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

// SetCachedSlots stores a slot list. Errors are ignored.
func SetCachedSlots(tenantID string, doctorID uint, dateKey string, slots []utils.Slot) {
	if Client == nil {
		return
	}
	payload, err := json.Marshal(slots)
	if err != nil {
		return
	}
	Client.Set(Ctx, slotKey(tenantID, doctorID, dateKey), payload, slotCacheTTL)
}

// InvalidateSlots drops the cached list after a booking write.
func InvalidateSlots(tenantID string, doctorID uint, dateKey string) {
	if Client == nil {
		return
	}
	Client.Del(Ctx, slotKey(tenantID, doctorID, dateKey))
}
