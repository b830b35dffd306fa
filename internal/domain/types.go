package domain

import "github.com/google/uuid"

type UserID = uuid.UUID
type ContactID = uuid.UUID
type AuditID = uuid.UUID
