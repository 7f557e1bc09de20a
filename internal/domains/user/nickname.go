package user

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

var (
	pseudonymAdjectives = []string{
		"Quiet", "Curious", "Sleepy", "Brave", "Gentle", "Witty", "Lucky", "Clever",
		"Cozy", "Dreamy", "Bold", "Calm", "Merry", "Nimble", "Patient", "Sunny",
		"Misty", "Eager", "Humble", "Jolly", "Kind", "Lively", "Noble", "Swift",
	}
	pseudonymNouns = []string{
		"Reader", "Owl", "Fox", "Bookworm", "Otter", "Badger", "Heron", "Panda",
		"Librarian", "Wanderer", "Scribe", "Sparrow", "Whale", "Lynx", "Poet", "Turtle",
		"Falcon", "Koala", "Penguin", "Hedgehog",
	}
)

// Pseudonym derives a stable display name from the user id alone
func Pseudonym(userID int64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(userID))
	h := xxhash.Sum64(buf[:])

	adj := pseudonymAdjectives[h%uint64(len(pseudonymAdjectives))]
	noun := pseudonymNouns[(h>>16)%uint64(len(pseudonymNouns))]
	return fmt.Sprintf("%s %s %d", adj, noun, (h>>32)%1000)
}

// DisplayName shows the real nickname only for original accounts
func DisplayName(userID int64, nickname string, isOriginal bool) string {
	if isOriginal && nickname != "" {
		return nickname
	}
	return Pseudonym(userID)
}
