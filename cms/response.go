// Package cms searches video sites exposing the Apple CMS collection API.
package cms

import (
	"encoding/json"
	"strconv"
	"strings"
)

// flexInt decodes numbers that some sites send as strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}

	*f = flexInt(n)
	return nil
}

type response struct {
	Code      flexInt `json:"code"`
	Msg       string  `json:"msg"`
	Page      flexInt `json:"page"`
	PageCount flexInt `json:"pagecount"`
	Total     flexInt `json:"total"`
	List      []*vod  `json:"list"`
}

type vod struct {
	ID       json.Number `json:"vod_id"`
	Name     string      `json:"vod_name"`
	TypeName string      `json:"type_name"`
	Class    string      `json:"vod_class"`
	Pic      string      `json:"vod_pic"`
	Year     string      `json:"vod_year"`
	Area     string      `json:"vod_area"`
	Content  string      `json:"vod_content"`
	Remarks  string      `json:"vod_remarks"`
	Actor    string      `json:"vod_actor"`
	Director string      `json:"vod_director"`
	PlayFrom string      `json:"vod_play_from"`
	PlayURL  string      `json:"vod_play_url"`
}
