package sessions

import "time"

// Record tracks one issued access token, keyed by its jti claim. A token is
// honored only while its record exists; signout deletes the record and the
// token is dead from then on, whatever its exp claim says.
type Record struct {
	JTI       string    `bson:"_id,omitempty" json:"jti"`
	UserID    string    `bson:"userId" json:"userId"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
