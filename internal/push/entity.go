package push

import "time"

// Subscription is a browser Web Push registration owned by one user.
type Subscription struct {
	ID        string    `yaml:"id"`
	UserID    string    `yaml:"user_id"`
	Endpoint  string    `yaml:"endpoint"`
	P256dhKey string    `yaml:"p256dh_key"`
	AuthKey   string    `yaml:"auth_key"`
	CreatedAt time.Time `yaml:"created_at"`
}
