package model

// Manager is one league GM as listed in managers.json.
type Manager struct {
	OwnerID   int      `json:"owner_id"`
	OwnerName string   `json:"owner_name"`
	TeamNames []string `json:"team_names,omitempty"`
	Active    bool     `json:"active"`
}

// ManagerIndex is data/managers.json.
type ManagerIndex struct {
	Managers []Manager `json:"managers"`
}

// RequiredKeys implements Fixture.
func (ManagerIndex) RequiredKeys() []string { return []string{"managers"} }

// Validate implements Fixture. Owner IDs must be positive and unique.
func (m ManagerIndex) Validate() error {
	seen := make(map[int]struct{}, len(m.Managers))
	for i, mgr := range m.Managers {
		if mgr.OwnerID <= 0 {
			return invalid("managers[%d]: owner_id must be positive", i)
		}
		if _, dup := seen[mgr.OwnerID]; dup {
			return invalid("managers[%d]: duplicate owner_id %d", i, mgr.OwnerID)
		}
		seen[mgr.OwnerID] = struct{}{}
	}
	return nil
}

// ByID returns the manager with the given owner id.
func (m ManagerIndex) ByID(ownerID int) (Manager, bool) {
	for _, mgr := range m.Managers {
		if mgr.OwnerID == ownerID {
			return mgr, true
		}
	}
	return Manager{}, false
}

// IDs returns the owner ids in fixture order.
func (m ManagerIndex) IDs() []int {
	ids := make([]int, len(m.Managers))
	for i, mgr := range m.Managers {
		ids[i] = mgr.OwnerID
	}
	return ids
}
