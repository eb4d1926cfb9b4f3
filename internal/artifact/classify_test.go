package artifact

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		hint     string
		want     Type
	}{
		{name: "development ipa", fileName: "MyApp-development.ipa", want: TypeDevelopment},
		{name: "ad hoc zip", fileName: "build-ad-hoc.zip", want: TypeAdHoc},
		{name: "ad_hoc underscore", fileName: "build_ad_hoc.ipa", want: TypeAdHoc},
		{name: "app store", fileName: "MyApp-app-store.ipa", want: TypeAppStore},
		{name: "logs archive", fileName: "build-logs.zip", want: TypeLogs},
		{name: "xcresult bundle", fileName: "Tests.xcresult.zip", want: TypeXCResult},
		{name: "xcarchive", fileName: "release.xcarchive", want: TypeXCArchive},
		{name: "plain ipa by extension", fileName: "plain.ipa", want: TypeIPA},
		{name: "apk by extension", fileName: "app-release.apk", want: TypeAPK},
		{name: "aab by extension", fileName: "app-release.aab", want: TypeAAB},
		{name: "unknown defaults to archive", fileName: "mystery.bin", want: TypeArchive},
		{name: "case insensitive", fileName: "MYAPP-DEVELOPMENT.IPA", want: TypeDevelopment},
		{name: "development beats extension", fileName: "development.apk", want: TypeDevelopment},
		{name: "ios hint on unknown name", fileName: "build.bin", hint: "ios", want: TypeIPA},
		{name: "android hint on unknown name", fileName: "build.bin", hint: "android", want: TypeAPK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.fileName, tt.hint); got != tt.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.fileName, tt.hint, got, tt.want)
			}
		})
	}
}

func TestClassifyFromAppMetadata(t *testing.T) {
	tests := []struct {
		name        string
		bundleID    string
		packageName string
		fileName    string
		want        Type
	}{
		{name: "bundle id wins", bundleID: "com.example.app", fileName: "whatever.zip", want: TypeIPA},
		{name: "package name defaults apk", packageName: "com.example.app", fileName: "release.bin", want: TypeAPK},
		{name: "package name with aab extension", packageName: "com.example.app", fileName: "release.aab", want: TypeAAB},
		{name: "no metadata falls back to filename", fileName: "release.xcarchive", want: TypeXCArchive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyFromAppMetadata(tt.bundleID, tt.packageName, tt.fileName)
			if got != tt.want {
				t.Errorf("ClassifyFromAppMetadata(%q, %q, %q) = %q, want %q",
					tt.bundleID, tt.packageName, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestTypeAccepts(t *testing.T) {
	for _, compatible := range []Type{TypeDevelopment, TypeAdHoc, TypeAppStore, TypeIPA} {
		if !TypeIPA.Accepts(compatible) {
			t.Errorf("ipa filter should accept %q", compatible)
		}
	}
	for _, excluded := range []Type{TypeLogs, TypeXCResult, TypeXCArchive, TypeAPK, TypeAAB, TypeArchive} {
		if TypeIPA.Accepts(excluded) {
			t.Errorf("ipa filter should not accept %q", excluded)
		}
	}
	if !TypeLogs.Accepts(TypeLogs) {
		t.Error("exact type should accept itself")
	}
	if TypeDevelopment.Accepts(TypeIPA) {
		t.Error("equivalence class only widens the ipa filter, not the others")
	}
}

func TestSearchFilterMatches(t *testing.T) {
	a := Artifact{Version: "1.2.3", BuildNumber: "45", Type: TypeAdHoc}

	tests := []struct {
		name   string
		filter SearchFilter
		want   bool
	}{
		{name: "empty filter matches", filter: SearchFilter{}, want: true},
		{name: "ipa filter matches ad hoc", filter: SearchFilter{Type: TypeIPA}, want: true},
		{name: "logs filter excludes ad hoc", filter: SearchFilter{Type: TypeLogs}, want: false},
		{name: "version match", filter: SearchFilter{Version: "1.2.3"}, want: true},
		{name: "version mismatch", filter: SearchFilter{Version: "1.2.4"}, want: false},
		{name: "build number mismatch", filter: SearchFilter{Version: "1.2.3", BuildNumber: "46"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(a); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	if typ, ok := ParseType("AD_HOC"); !ok || typ != TypeAdHoc {
		t.Errorf("ParseType(AD_HOC) = %q, %v", typ, ok)
	}
	if typ, ok := ParseType(""); !ok || typ != "" {
		t.Errorf("ParseType empty = %q, %v", typ, ok)
	}
	if _, ok := ParseType("tarball"); ok {
		t.Error("ParseType should reject unknown vocabulary")
	}
}
