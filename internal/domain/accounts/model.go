package accounts

import "time"

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User is the identity record behind every admin and client account.
type User struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
	Role         string `gorm:"type:varchar(20);not null" json:"role"`

	// AdminID links a client account back to the admin that created it.
	AdminID *string `gorm:"type:uuid;index" json:"adminId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// AdminProfile is the document stored under admin:<id>.
type AdminProfile struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	BusinessName string `json:"businessName"`
	CreatedAt    string `json:"createdAt"`
}

// ClientProfile is the document stored under client:<id>. Galleries holds
// gallery ids the admin pre-assigned at creation time; actual visibility is
// governed by each gallery's own clients list.
type ClientProfile struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	AdminID   string   `json:"adminId"`
	Galleries []string `json:"galleries"`
	CreatedAt string   `json:"createdAt"`
}

func AdminKey(id string) string  { return "admin:" + id }
func ClientKey(id string) string { return "client:" + id }

// ClientPrefix is the scan prefix covering every client profile document.
const ClientPrefix = "client:"
