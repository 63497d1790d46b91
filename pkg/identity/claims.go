package identity

// FromClaims maps an OpenID Connect claim set onto an Identity.
// Non-standard claims, and standard ones with an unexpected shape such as the
// structured address claim, are kept in Extra.
func FromClaims(raw map[string]any) Identity {
	p := NewPayload(raw)
	return Identity{
		Subject:             p.String("sub"),
		DisplayName:         p.String("name"),
		GivenName:           p.String("given_name"),
		FamilyName:          p.String("family_name"),
		MiddleName:          p.String("middle_name"),
		Nickname:            p.String("nickname"),
		PreferredUsername:   p.String("preferred_username"),
		ProfileURL:          p.String("profile"),
		PictureURL:          p.String("picture"),
		Website:             p.String("website"),
		Email:               p.String("email"),
		EmailVerified:       p.Flag("email_verified"),
		Gender:              p.String("gender"),
		Birthdate:           p.String("birthdate"),
		Timezone:            p.String("zoneinfo"),
		Locale:              p.String("locale"),
		PhoneNumber:         p.String("phone_number"),
		PhoneNumberVerified: p.Flag("phone_number_verified"),
		Address:             p.String("address"),
		UpdatedAt:           p.String("updated_at"),
		Extra:               p.Remaining(),
	}
}
