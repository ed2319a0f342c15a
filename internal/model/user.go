package model

import "time"

// User 是本地后端保存的账号，以邮箱作为唯一标识。
type User struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
