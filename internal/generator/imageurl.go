// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import "regexp"

// imageURLPattern matches a bare http(s) URL ending in a common raster
// image extension. The stock photo lookup asks the model for exactly this
// shape, but models reply in prose often enough that the match is done
// here rather than trusted.
var imageURLPattern = regexp.MustCompile(`https?://[^\s"'<>()]+\.(?:jpg|jpeg|png|webp)`)

// ExtractImageURL returns the first image URL found in the text and
// whether one was found at all.
func ExtractImageURL(text string) (string, bool) {
	url := imageURLPattern.FindString(text)
	return url, url != ""
}
