package entity

import "time"

const (
	RoleStudent          = "student"
	RoleAdmin            = "admin"
	RoleCanteenVendor    = "canteen-vendor"
	RoleStationaryVendor = "stationary-vendor"
)

// VendorRoleCategory maps a vendor role to the product category it manages.
// Roles outside this map are not vendors.
var VendorRoleCategory = map[string]string{
	RoleCanteenVendor:    CategoryCanteen,
	RoleStationaryVendor: CategoryStationary,
}

func IsVendorRole(role string) bool {
	_, ok := VendorRoleCategory[role]
	return ok
}

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleAdmin, RoleCanteenVendor, RoleStationaryVendor:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// VendorCode is a one-time registration token consumed at vendor signup.
type VendorCode struct {
	ID         int        `json:"id"`
	Code       string     `json:"code"`
	VendorType string     `json:"vendor_type"`
	CreatedBy  int        `json:"created_by"`
	Used       bool       `json:"used"`
	UsedBy     *int       `json:"used_by,omitempty"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
	IsActive   bool       `json:"is_active"`
}
