// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package stash

// Scene is the subset of the upstream Scene type the player renders and
// plays.
type Scene struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Details    string      `json:"details"`
	Date       string      `json:"date"`
	Rating100  int         `json:"rating100"`
	Organized  bool        `json:"organized"`
	PlayCount  int         `json:"play_count"`
	CreatedAt  string      `json:"created_at"`
	Files      []File      `json:"files"`
	Paths      Paths       `json:"paths"`
	Studio     *Studio     `json:"studio"`
	Performers []Performer `json:"performers"`
	Tags       []Tag       `json:"tags"`
}

// File carries the container/resolution metadata of one scene file.
type File struct {
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Size     int64   `json:"size"`
}

// Paths holds the upstream URLs for a scene's derived assets.
type Paths struct {
	Stream     string `json:"stream"`
	Screenshot string `json:"screenshot"`
	Preview    string `json:"preview"`
}

// Performer is the subset of the upstream Performer type the player shows.
type Performer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	Birthdate  string `json:"birthdate"`
	Country    string `json:"country"`
	Rating100  int    `json:"rating100"`
	Favorite   bool   `json:"favorite"`
	SceneCount int    `json:"scene_count"`
	ImagePath  string `json:"image_path"`
	CreatedAt  string `json:"created_at"`
}

// Studio is the subset of the upstream Studio type the player shows.
type Studio struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Rating100  int    `json:"rating100"`
	Favorite   bool   `json:"favorite"`
	SceneCount int    `json:"scene_count"`
	ImagePath  string `json:"image_path"`
	CreatedAt  string `json:"created_at"`
}

// Tag is the subset of the upstream Tag type the player shows.
type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Favorite    bool   `json:"favorite"`
	SceneCount  int    `json:"scene_count"`
	CreatedAt   string `json:"created_at"`
}

// SceneResult is one page of scenes with the total match count.
type SceneResult struct {
	Count  int     `json:"count"`
	Scenes []Scene `json:"scenes"`
}

// PerformerResult is one page of performers with the total match count.
type PerformerResult struct {
	Count      int         `json:"count"`
	Performers []Performer `json:"performers"`
}

// StudioResult is one page of studios with the total match count.
type StudioResult struct {
	Count   int      `json:"count"`
	Studios []Studio `json:"studios"`
}

// TagResult is one page of tags with the total match count.
type TagResult struct {
	Count int   `json:"count"`
	Tags  []Tag `json:"tags"`
}
