package catalog

// API payload shapes. Field names cover both the current and the legacy
// variants of the catalog; converters pick whichever is populated.

type APIAlbumStub struct {
	ID   FlexString `json:"id"`
	Name string     `json:"name"`
	URL  string     `json:"url"`
}

type APISong struct {
	ID              FlexString   `json:"id"`
	Name            string       `json:"name"`
	Title           string       `json:"title"`
	Type            string       `json:"type"`
	Year            FlexInt      `json:"year"`
	Duration        FlexInt      `json:"duration"`
	Label           string       `json:"label"`
	Language        string       `json:"language"`
	Copyright       string       `json:"copyright"`
	URL             string       `json:"url"`
	PlayCount       FlexInt      `json:"playCount"`
	ExplicitContent FlexBool     `json:"explicitContent"`
	Album           APIAlbumStub `json:"album"`
	Artists         FlexArtists  `json:"artists"`
	PrimaryArtists  FlexString   `json:"primaryArtists"`
	Image           FlexLinks    `json:"image"`
	DownloadURL     FlexLinks    `json:"downloadUrl"`
	DownloadURLAlt  FlexLinks    `json:"download_url"`
}

type APIAlbum struct {
	ID              FlexString  `json:"id"`
	Name            string      `json:"name"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Year            FlexInt     `json:"year"`
	Language        string      `json:"language"`
	URL             string      `json:"url"`
	SongCount       FlexInt     `json:"songCount"`
	ExplicitContent FlexBool    `json:"explicitContent"`
	Artists         FlexArtists `json:"artists"`
	PrimaryArtists  FlexString  `json:"primaryArtists"`
	Image           FlexLinks   `json:"image"`
	Songs           []APISong   `json:"songs"`
}

type APIArtist struct {
	ID        FlexString `json:"id"`
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Role      string     `json:"role"`
	URL       string     `json:"url"`
	Image     FlexLinks  `json:"image"`
	TopSongs  []APISong  `json:"topSongs"`
	TopAlbums []APIAlbum `json:"topAlbums"`
}

type APIPlaylist struct {
	ID              FlexString `json:"id"`
	Name            string     `json:"name"`
	Title           string     `json:"title"`
	Language        string     `json:"language"`
	URL             string     `json:"url"`
	SongCount       FlexInt    `json:"songCount"`
	ExplicitContent FlexBool   `json:"explicitContent"`
	Image           FlexLinks  `json:"image"`
	Songs           []APISong  `json:"songs"`
}

// APISearchHit is an entry of the mixed /search response.
type APISearchHit struct {
	ID          FlexString `json:"id"`
	Title       string     `json:"title"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Image       FlexLinks  `json:"image"`
}

type apiHitGroup struct {
	Results []APISearchHit `json:"results"`
}

// APISearchAll is the data object of the mixed /search response.
type APISearchAll struct {
	Songs     apiHitGroup `json:"songs"`
	Albums    apiHitGroup `json:"albums"`
	Artists   apiHitGroup `json:"artists"`
	Playlists apiHitGroup `json:"playlists"`
}
