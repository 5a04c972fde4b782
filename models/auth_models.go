package models

// SignupRequest представляет данные для регистрации нового пользователя.
type SignupRequest struct {
	Name          string `json:"name"`
	LastName      string `json:"lastName"`
	Username      string `json:"username"`
	Region        string `json:"region"`
	Commune       string `json:"commune"`
	Sex           string `json:"sex"`
	Birthdate     string `json:"birthdate"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	TermsAccepted bool   `json:"termsAccepted"`
}

// LoginRequest представляет данные для входа пользователя.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdateRequest представляет данные для обновления профиля.
// Country принимается, но всегда перезаписывается на DefaultCountry.
type ProfileUpdateRequest struct {
	Name      string `json:"name"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	Region    string `json:"region"`
	Commune   string `json:"commune"`
	Sex       string `json:"sex"`
	Birthdate string `json:"birthdate"`
}

// AvatarRequest содержит новое фото профиля в виде data-URL.
type AvatarRequest struct {
	Image MediaPayload `json:"image"`
}
