package account

import (
	"time"

	"github.com/google/uuid"
)

const (
	RolePatient    = "Patient"
	RoleDoctor     = "Doctor"
	RoleDiagnostic = "Diagnostic"
	RoleAdmin      = "Admin"
)

var validRoles = map[string]bool{
	RolePatient: true, RoleDoctor: true, RoleDiagnostic: true, RoleAdmin: true,
}

// User maps to the app_user table. OTP fields and the password hash never
// leave the server.
type User struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Username          string     `db:"username" json:"username"`
	Email             string     `db:"email" json:"email"`
	Password          string     `db:"password" json:"-"`
	Role              string     `db:"role" json:"role"`
	IsAccountVerified bool       `db:"is_account_verified" json:"is_account_verified"`
	VerifyOTP         *string    `db:"verify_otp" json:"-"`
	VerifyOTPExpireAt *time.Time `db:"verify_otp_expire_at" json:"-"`
	ResetOTP          *string    `db:"reset_otp" json:"-"`
	ResetOTPExpireAt  *time.Time `db:"reset_otp_expire_at" json:"-"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
