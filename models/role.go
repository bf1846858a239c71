package models

type UserRole string

// RoleOrganizer may create tournaments, manage teams and record results.
const RoleOrganizer UserRole = "organizer"
