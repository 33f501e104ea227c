package projects

import "time"

// Project groups tasks under a manager. Members are the user IDs allowed
// to see the project in the user area.
type Project struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	ManagerID   string    `json:"managerId" bson:"managerId"`
	MemberIDs   []string  `json:"memberIds" bson:"memberIds"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// HasMember reports whether userID participates in the project.
func (p *Project) HasMember(userID string) bool {
	if p.ManagerID == userID {
		return true
	}
	for _, id := range p.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
