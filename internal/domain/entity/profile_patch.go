package entity

// ProfilePatch lists the account fields a user may change.
// A nil field is left untouched.
type ProfilePatch struct {
	NIM         *string
	FullName    *string
	Bio         *string
	PhoneNumber *string
	AvatarURL   *string
	Major       *string
	Batch       *string
	Address     *string
	City        *string
	Province    *string
	PostalCode  *string
	Country     *string
}

// Apply merges the non-nil patch fields into a.
func (p ProfilePatch) Apply(a *Account) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&a.NIM, p.NIM)
	set(&a.FullName, p.FullName)
	set(&a.Bio, p.Bio)
	set(&a.PhoneNumber, p.PhoneNumber)
	set(&a.AvatarURL, p.AvatarURL)
	set(&a.Major, p.Major)
	set(&a.Batch, p.Batch)
	set(&a.Address, p.Address)
	set(&a.City, p.City)
	set(&a.Province, p.Province)
	set(&a.PostalCode, p.PostalCode)
	set(&a.Country, p.Country)
}
