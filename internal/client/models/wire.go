package models

import "encoding/json"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	UUID     string `json:"uuid"`
	EmailSHA string `json:"email_sha"`
}

// MediaItem is one registered media identifier as listed by the backend.
type MediaItem struct {
	MediaID   string `json:"media_id"`
	Label     string `json:"label,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type MediaList struct {
	Items []MediaItem `json:"items"`
}

// ImageFile is an in-memory image plus the name it is uploaded under.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type EmbedRequest struct {
	File     ImageFile
	Text     string
	Preset   string
	Label    string
	UserUUID string
}

// MediaRecord registers a media identifier against the account.
type MediaRecord struct {
	Email    string
	EmailSHA string
	MediaID  string
	Label    string
	UserUUID string
}

type SaveResponse struct {
	OK bool `json:"ok"`
}

// ExtractParams must match the parameters the backend embedded with.
type ExtractParams struct {
	QIMStep        int  `json:"qim_step"`
	Repetition     int  `json:"repetition"`
	ECCParityBytes int  `json:"ecc_parity_bytes"`
	UseYChannel    bool `json:"use_y_channel"`
	UseECC         bool `json:"use_ecc"`
	PayloadBitLen  int  `json:"payload_bitlen"`
}

func DefaultExtractParams() ExtractParams {
	return ExtractParams{
		QIMStep:        24,
		Repetition:     160,
		ECCParityBytes: 64,
		UseYChannel:    true,
		UseECC:         true,
		PayloadBitLen:  768,
	}
}

type ExtractRequest struct {
	File      ImageFile
	Params    ExtractParams
	CheckText string
}

// ExtractResult is lenient: a similarity that is not a JSON number reads as 0
// and only a literal true counts as a text-hash match.
type ExtractResult struct {
	Similarity    float64
	MatchTextHash bool
}

func (r *ExtractResult) UnmarshalJSON(b []byte) error {
	var raw struct {
		Similarity    any `json:"similarity"`
		MatchTextHash any `json:"match_text_hash"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Similarity, _ = raw.Similarity.(float64)
	r.MatchTextHash, _ = raw.MatchTextHash.(bool)
	return nil
}

type ScanRequest struct {
	Usernames             []string      `json:"usernames"`
	Hashtags              []string      `json:"hashtags"`
	MaxResults            int           `json:"max_results"`
	BearerToken           string        `json:"bearer_token"`
	CheckText             string        `json:"check_text"`
	ExtractParams         ExtractParams `json:"extract_params"`
	SaveImages            bool          `json:"save_images"`
	SaveDir               string        `json:"save_dir"`
	Dedupe                bool          `json:"dedupe"`
	ExtractURL            string        `json:"extract_url"`
	IncludeRawTwitterMeta bool          `json:"include_raw_twitter_meta"`
	RequestTimeoutSec     int           `json:"request_timeout_sec"`
}

type ScanResponse struct {
	Results []ScanResult `json:"results"`
}

type ScanResult struct {
	Tweet Tweet     `json:"tweet"`
	Image ScanImage `json:"image"`
}

type Tweet struct {
	TweetURL       string `json:"tweet_url"`
	AuthorUsername string `json:"author_username"`
	Text           string `json:"text,omitempty"`
}

type ScanImage struct {
	ImageURL string `json:"image_url"`
}
