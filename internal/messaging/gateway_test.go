package messaging

import "testing"

func TestEmbed_SetField(t *testing.T) {
	tests := []struct {
		name       string
		fields     []Field
		wantIndex  int
		wantLength int
	}{
		{
			name:       "既存フィールドを置き換える",
			fields:     []Field{{Name: "Statut", Value: "⏳ EN ATTENTE"}, {Name: "Début", Value: "x"}},
			wantIndex:  0,
			wantLength: 2,
		},
		{
			name:       "先頭以外のフィールドも名前で置き換える",
			fields:     []Field{{Name: "Début", Value: "x"}, {Name: "Statut", Value: "⏳ EN ATTENTE"}},
			wantIndex:  1,
			wantLength: 2,
		},
		{
			name:       "存在しない場合は末尾に追加する",
			fields:     []Field{{Name: "Début", Value: "x"}},
			wantIndex:  1,
			wantLength: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Embed{Fields: tt.fields}
			e.SetField("Statut", "✅ APPROUVÉ", true)

			if len(e.Fields) != tt.wantLength {
				t.Fatalf("len(Fields) = %d, want %d", len(e.Fields), tt.wantLength)
			}
			if got := e.Fields[tt.wantIndex]; got.Name != "Statut" || got.Value != "✅ APPROUVÉ" {
				t.Errorf("Fields[%d] = %+v", tt.wantIndex, got)
			}
			if f, ok := e.Field("Début"); !ok || f.Value != "x" {
				t.Errorf("other field was modified: %+v", f)
			}
		})
	}
}

func TestMember_IsAdmin(t *testing.T) {
	tests := []struct {
		name        string
		member      *Member
		adminRoleID string
		want        bool
	}{
		{"nil", nil, "role-admin", false},
		{"管理ロールを持つ", &Member{RoleIDs: []string{"role-a", "role-admin"}}, "role-admin", true},
		{"管理者権限を持つ", &Member{Administrator: true}, "", true},
		{"ロール未設定なら一般ロールは不可", &Member{RoleIDs: []string{""}}, "", false},
		{"権限なし", &Member{RoleIDs: []string{"role-a"}}, "role-admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.member.IsAdmin(tt.adminRoleID); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}
