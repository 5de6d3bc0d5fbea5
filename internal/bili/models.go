package bili

type Owner struct {
	UID     uint64 `json:"mid"`
	Name    string `json:"name"`
	FaceURL string `json:"face"`
}

// PageInfo is one part of a video. Most videos have a single page.
type PageInfo struct {
	CID      uint64 `json:"cid"`
	Page     int    `json:"page"`
	Title    string `json:"part"`
	Duration int    `json:"duration"`
}

// PlayURL is a directly downloadable media body.
type PlayURL struct {
	Order  int    `json:"order"`
	Length int64  `json:"length"`
	Size   int64  `json:"size"`
	URL    string `json:"url"`
}

type playURLData struct {
	Quality       int       `json:"quality"`
	AcceptQuality []int     `json:"accept_quality"`
	Durl          []PlayURL `json:"durl"`
}

type View struct {
	AID             uint64 `json:"aid"`
	BVID            string `json:"bvid"`
	CID             uint64 `json:"cid"`
	Title           string `json:"title"`
	Owner           Owner  `json:"owner"`
	PicURL          string `json:"pic"`
	IsSeasonDisplay bool   `json:"is_season_display"`
	SeasonID        uint64 `json:"season_id"`
}

type Episode struct {
	AID   uint64 `json:"aid"`
	BVID  string `json:"bvid"`
	CID   uint64 `json:"cid"`
	Title string `json:"title"`
}

type SeasonList struct {
	SeasonID uint64
	Name     string
	Owner    Owner
	Episodes []Episode
}

type viewDetail struct {
	View struct {
		View
		UGCSeason *struct {
			ID       uint64 `json:"id"`
			Title    string `json:"title"`
			Sections []struct {
				Episodes []Episode `json:"episodes"`
			} `json:"sections"`
		} `json:"ugc_season"`
	} `json:"View"`
}

type MusicInfo struct {
	MusicID string `json:"music_id"`
	Title   string `json:"music_title"`
}

type playerInfo struct {
	BGMInfo *MusicInfo `json:"bgm_info"`
}
