package works

import "coleccion-arte/internal/domain/works"

// ArtworkResponse is an artwork row plus the joined author and location names.
type ArtworkResponse struct {
	works.Artwork
	AuthorName      string  `json:"autor_nombre"`
	AuthorBiography *string `json:"autor_biografia,omitempty"`
	LocationName    string  `json:"ubicacion_nombre"`
}

type ListResponse struct {
	Artworks   []ArtworkResponse `json:"obras"`
	Total      int64             `json:"totalObras"`
	TotalPages int               `json:"totalPaginas"`
}

type StatusOption struct {
	ID   works.Status `json:"id"`
	Name string       `json:"nombre"`
}

func toArtworkResponse(a works.Artwork, withBiography bool) ArtworkResponse {
	out := ArtworkResponse{
		Artwork:      a,
		AuthorName:   a.AuthorName(),
		LocationName: a.LocationName(),
	}
	if withBiography && a.Author != nil {
		out.AuthorBiography = a.Author.Biography
	}
	return out
}
