package model

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
