package models

import "testing"

func TestPlaceholderIdentity(t *testing.T) {
	id := PlaceholderIdentity("did:key:z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK")
	if id.Username != "z6M...doK" {
		t.Fatalf("want z6M...doK, got %q", id.Username)
	}
	if id.DID == "" {
		t.Fatal("placeholder should keep the did")
	}
}

func TestPlaceholderIdentityShortDID(t *testing.T) {
	id := PlaceholderIdentity("did:short")
	if id.Username != "did:short" {
		t.Fatalf("short dids are used verbatim, got %q", id.Username)
	}
}

func TestSupersedeKeepsImages(t *testing.T) {
	have := Identity{DID: "did:a", Username: "old", ProfilePicture: "data:pic", ProfileBanner: "data:banner"}
	have.Supersede(Identity{DID: "did:a", Username: "new", StatusMessage: "hello"})

	if have.Username != "new" || have.StatusMessage != "hello" {
		t.Fatal("newer fields should apply")
	}
	if have.ProfilePicture != "data:pic" || have.ProfileBanner != "data:banner" {
		t.Fatal("lazily fetched images should survive a refresh that omits them")
	}
}

func TestSupersedeTakesNewImages(t *testing.T) {
	have := Identity{DID: "did:a", ProfilePicture: "data:old"}
	have.Supersede(Identity{DID: "did:a", ProfilePicture: "data:new"})
	if have.ProfilePicture != "data:new" {
		t.Fatal("a refresh that carries an image should win")
	}
}
