package domain

// ProjectFields mirrors the on-chain project showcase object. VotersTableID
// is not part of the JSON shape; the decoder lifts it out of the nested
// `voters` table.
type ProjectFields struct {
	ID            UID      `json:"id"`
	Owner         Address  `json:"owner"`
	Title         string   `json:"title"`
	Technologies  []string `json:"technologies"`
	Description   string   `json:"description"`
	GithubLink    string   `json:"github_link"`
	YoutubeLink   string   `json:"youtube_link"`
	ImageBlobID   string   `json:"img_prj_blods_id"`
	VoteCount     U64      `json:"vote_count"`
	VotersTableID ObjectID `json:"-"`
}

type Project struct {
	ID           ObjectID `json:"id"`
	Owner        Address  `json:"owner"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	GithubLink   string   `json:"githubLink,omitempty"`
	YoutubeLink  string   `json:"youtubeLink,omitempty"`
	ImageBlobID  string   `json:"imageBlobId,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	VoteCount    uint64   `json:"voteCount"`
}

func (f ProjectFields) ToProject(aggregator string) Project {
	techs := f.Technologies
	if techs == nil {
		techs = []string{}
	}
	return Project{
		ID:           f.ID.ID,
		Owner:        f.Owner,
		Title:        f.Title,
		Description:  f.Description,
		Technologies: techs,
		GithubLink:   f.GithubLink,
		YoutubeLink:  f.YoutubeLink,
		ImageBlobID:  f.ImageBlobID,
		ImageURL:     BlobURL(aggregator, f.ImageBlobID),
		VoteCount:    uint64(f.VoteCount),
	}
}
