package postgres

import "time"

// UserModel é o model GORM para usuários (administradores e alunos)
type UserModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:users_email_key;not null"`
	CPF          string    `gorm:"column:cpf;type:varchar(14);uniqueIndex:users_cpf_key;not null"`
	RA           *string   `gorm:"column:ra;type:varchar(50);uniqueIndex:users_ra_key"`
	PasswordHash *string   `gorm:"type:varchar(255)"`
	Role         string    `gorm:"type:varchar(20);not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}
