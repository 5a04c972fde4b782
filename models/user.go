package models

import "time"

// DefaultCountry - страна, которая записывается всем пользователям.
const DefaultCountry = "Chile"

// BirthdateLayout - формат даты рождения в API.
const BirthdateLayout = "2006-01-02"

// User представляет пользователя системы в том виде, в каком он хранится в БД.
type User struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	LastName     string    `db:"last_name"`
	Username     string    `db:"username"`
	Country      string    `db:"country"`
	Region       string    `db:"region"`
	Commune      string    `db:"commune"`
	Sex          string    `db:"sex"`
	Birthdate    time.Time `db:"birthdate"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	AvatarURL    *string   `db:"avatar_url"`
	CreatedAt    time.Time `db:"created_at"`
}

// Public возвращает публичные данные пользователя без хеша пароля.
func (u *User) Public() UserPublicInfo {
	return UserPublicInfo{
		ID:        u.ID,
		Name:      u.Name,
		LastName:  u.LastName,
		Username:  u.Username,
		Country:   u.Country,
		Region:    u.Region,
		Commune:   u.Commune,
		Sex:       u.Sex,
		Birthdate: u.Birthdate.Format(BirthdateLayout),
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// UserPublicInfo представляет публичные данные пользователя, возвращаемые API.
type UserPublicInfo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LastName  string    `json:"lastName"`
	Username  string    `json:"username"`
	Country   string    `json:"country"`
	Region    string    `json:"region"`
	Commune   string    `json:"commune"`
	Sex       string    `json:"sex"`
	Birthdate string    `json:"birthdate"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
