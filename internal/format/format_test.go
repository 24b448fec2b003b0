package format

import "testing"

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1000, "1.00 KB"},
		{26500, "26.5 KB"},
		{207000000, "207 MB"},
		{1300000000, "1.30 GB"},
	}
	for _, c := range cases {
		if got := HumanBytes(c.in); got != c.want {
			t.Errorf("HumanBytes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHumanNumber(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{42, "42"},
		{1500, "1.5K"},
		{51200000, "51.2M"},
		{7000000000, "7.0B"},
	}
	for _, c := range cases {
		if got := HumanNumber(c.in); got != c.want {
			t.Errorf("HumanNumber(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
