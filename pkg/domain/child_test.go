package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	fb := Fallbacks{
		Name:           "Little Rider",
		Gender:         "child",
		FavoriteColor:  "red",
		FavoriteAnimal: "pony",
		HomeTown:       "Dusty Gulch",
	}

	t.Run("入力値はそのまま差し込まれること", func(t *testing.T) {
		got := Normalize(ChildAttributes{
			Name:           "Mia",
			Gender:         "Girl",
			Skin:           "tan",
			Hair:           "brown",
			FavoriteColor:  "purple",
			FavoriteAnimal: "bunny",
			HomeTown:       "Columbia",
		}, fb)
		want := DisplayAttributes{
			Name:   "Mia",
			Gender: "girl",
			Skin:   "tan skin",
			Hair:   "brown hair",
			Color:  "purple",
			Animal: "bunny",
			Town:   "Columbia",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("空白のみの入力はフォールバックに置き換わること", func(t *testing.T) {
		got := Normalize(ChildAttributes{Name: "   ", Skin: "\t", HomeTown: ""}, fb)
		if got.Name != "Little Rider" {
			t.Errorf("期待値 'Little Rider', 実際の値 '%s'", got.Name)
		}
		if got.Skin != DefaultSkin {
			t.Errorf("期待値 '%s', 実際の値 '%s'", DefaultSkin, got.Skin)
		}
		if got.Hair != DefaultHair {
			t.Errorf("期待値 '%s', 実際の値 '%s'", DefaultHair, got.Hair)
		}
		if got.Town != "Dusty Gulch" {
			t.Errorf("期待値 'Dusty Gulch', 実際の値 '%s'", got.Town)
		}
	})

	t.Run("フォールバックも空なら既定値が使われること", func(t *testing.T) {
		got := Normalize(ChildAttributes{}, Fallbacks{})
		want := DisplayAttributes{
			Name:   DefaultName,
			Gender: DefaultGender,
			Skin:   DefaultSkin,
			Hair:   DefaultHair,
			Color:  DefaultColor,
			Animal: DefaultAnimal,
			Town:   DefaultTown,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("記号を含む入力もエスケープされないこと", func(t *testing.T) {
		got := Normalize(ChildAttributes{Name: `Zoë "Z" <3`}, fb)
		if got.Name != `Zoë "Z" <3` {
			t.Errorf("名前が変換されています: %q", got.Name)
		}
	})
}

func TestDisplayAttributes_Descriptor(t *testing.T) {
	d := DisplayAttributes{Gender: "girl", Skin: "tan skin", Hair: "brown hair"}
	if got := d.Descriptor(); got != "girl with tan skin and brown hair" {
		t.Errorf("Descriptor() = %q", got)
	}
}
