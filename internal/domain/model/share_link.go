package model

import "regexp"

// Terabox publishes the same share surface under a pile of mirror domains.
// The set below mirrors what the upstream resolver accepts.
var shareLinkRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:mirrobox\.com|nephobox\.com|freeterabox\.com|1024tera\.com|1024terabox\.com|terabox\.com|4funbox\.com|terabox\.app|terabox\.fun|tibibox\.com|momerybox\.com|teraboxapp\.com|4funbox\.co)/(?:s/[a-zA-Z0-9_-]+|sharing/link\?surl=[a-zA-Z0-9_-]+)`)

// IsTeraboxShareURL reports whether s looks like a Terabox share link.
// The dispatcher never calls the resolver for anything that fails this check.
func IsTeraboxShareURL(s string) bool {
	return shareLinkRe.MatchString(s)
}
