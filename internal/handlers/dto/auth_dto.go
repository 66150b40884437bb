package dto

// SignupRequest cadastra um novo administrador
type SignupRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=255" example:"Admin Name"`
	Email    string `json:"email" validate:"required,email,max=255" example:"admin.email@example.com"`
	CPF      string `json:"cpf" example:"529.982.247-25"`
	Password string `json:"password" validate:"required,min=8,max=72" example:"12345678"`
}

// Validate retorna os erros de campo da requisição
func (r *SignupRequest) Validate(v *Validator) []ValidationError {
	errs := v.Struct(r)
	return append(errs, v.CPF("cpf", r.CPF)...)
}

// SigninRequest autentica um administrador
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email" example:"admin.email@example.com"`
	Password string `json:"password" validate:"required,min=8,max=72" example:"12345678"`
}

func (r *SigninRequest) Validate(v *Validator) []ValidationError {
	return v.Struct(r)
}

// TokenResponse contém o token de acesso emitido no signin
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}
