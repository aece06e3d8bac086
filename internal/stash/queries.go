// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package stash

// GraphQL documents sent to the upstream Stash server. Field selections
// are limited to what the browsing UI renders; Stash tolerates unknown
// variables being absent, so every document takes the full filter pair.

const findScenesDocument = `
query FindScenes($filter: FindFilterType, $scene_filter: SceneFilterType) {
  findScenes(filter: $filter, scene_filter: $scene_filter) {
    count
    scenes {
      id
      title
      details
      date
      rating100
      organized
      play_count
      created_at
      files {
        duration
        width
        height
        size
      }
      paths {
        stream
        screenshot
        preview
      }
      studio {
        id
        name
      }
      performers {
        id
        name
      }
      tags {
        id
        name
      }
    }
  }
}`

const findPerformersDocument = `
query FindPerformers($filter: FindFilterType, $performer_filter: PerformerFilterType) {
  findPerformers(filter: $filter, performer_filter: $performer_filter) {
    count
    performers {
      id
      name
      gender
      birthdate
      country
      favorite
      rating100
      scene_count
      image_path
      created_at
    }
  }
}`

const findStudiosDocument = `
query FindStudios($filter: FindFilterType, $studio_filter: StudioFilterType) {
  findStudios(filter: $filter, studio_filter: $studio_filter) {
    count
    studios {
      id
      name
      url
      rating100
      scene_count
      image_path
      created_at
    }
  }
}`

const findTagsDocument = `
query FindTags($filter: FindFilterType, $tag_filter: TagFilterType) {
  findTags(filter: $filter, tag_filter: $tag_filter) {
    count
    tags {
      id
      name
      description
      scene_count
      created_at
    }
  }
}`

const versionDocument = `
query Version {
  version {
    version
  }
}`
