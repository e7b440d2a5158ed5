package domain

// ProfileFields mirrors the on-chain profile object.
type ProfileFields struct {
	ID               UID        `json:"id"`
	Owner            Address    `json:"owner"`
	Name             string     `json:"name"`
	Username         string     `json:"username"`
	Github           string     `json:"github"`
	Linkedin         string     `json:"linkedin"`
	Bio              string     `json:"bio"`
	SlushWallet      string     `json:"slushwallet"`
	AvatarBlobID     string     `json:"ava_image_blod_id"`
	ListProjects     []ObjectID `json:"list_projects"`
	ListCertificates []ObjectID `json:"list_certificates"`
}

type Profile struct {
	ID             ObjectID   `json:"id"`
	Owner          Address    `json:"owner"`
	Name           string     `json:"name"`
	Username       string     `json:"username"`
	Github         string     `json:"github"`
	Linkedin       string     `json:"linkedin"`
	Bio            string     `json:"bio"`
	SlushWallet    string     `json:"slushWallet"`
	AvatarBlobID   string     `json:"avatarBlobId"`
	AvatarURL      string     `json:"avatarUrl,omitempty"`
	ProjectIDs     []ObjectID `json:"projectIds"`
	CertificateIDs []ObjectID `json:"certificateIds"`
}

func (f ProfileFields) ToProfile(aggregator string) Profile {
	return Profile{
		ID:             f.ID.ID,
		Owner:          f.Owner,
		Name:           f.Name,
		Username:       f.Username,
		Github:         f.Github,
		Linkedin:       f.Linkedin,
		Bio:            f.Bio,
		SlushWallet:    f.SlushWallet,
		AvatarBlobID:   f.AvatarBlobID,
		AvatarURL:      BlobURL(aggregator, f.AvatarBlobID),
		ProjectIDs:     nonNil(f.ListProjects),
		CertificateIDs: nonNil(f.ListCertificates),
	}
}

// Developer is a profile together with its resolved projects and certificates.
type Developer struct {
	Profile      Profile       `json:"profile"`
	Projects     []Project     `json:"projects"`
	Certificates []Certificate `json:"certificates"`
}

func nonNil(ids []ObjectID) []ObjectID {
	if ids == nil {
		return []ObjectID{}
	}
	return ids
}
