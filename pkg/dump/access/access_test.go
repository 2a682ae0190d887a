// Copyright 2026 Alexander Alten (novatechflow), NovaTechflow (novatechflow.com).
// This project is supported and financed by Scalytics, Inc. (www.scalytics.io).
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package access

import "testing"

func TestDisabledAuthorizerAllowsEverything(t *testing.T) {
	a := NewAuthorizer(Config{Enabled: false})
	if !a.Allows("anyone", ActionArchive, "orders") {
		t.Fatalf("expected disabled authorizer to allow everything")
	}
}

func TestNilAuthorizerAllowsEverything(t *testing.T) {
	var a *Authorizer
	if !a.Allows("anyone", ActionScan, "orders") {
		t.Fatalf("expected nil authorizer to allow everything")
	}
}

func TestDefaultPolicyAppliesToUnknownPrincipal(t *testing.T) {
	a := NewAuthorizer(Config{Enabled: true, DefaultPolicy: "deny"})
	if a.Allows("stranger", ActionScan, "orders") {
		t.Fatalf("expected default-deny to reject unknown principal")
	}
}

func TestAllowRuleWithWildcardTopic(t *testing.T) {
	a := NewAuthorizer(Config{
		Enabled:       true,
		DefaultPolicy: "deny",
		Principals: []PrincipalRules{
			{Name: "etl", Allow: []Rule{{Action: ActionArchive, Topic: "orders-*"}}},
		},
	})
	if !a.Allows("etl", ActionArchive, "orders-events") {
		t.Fatalf("expected wildcard topic rule to match")
	}
	if a.Allows("etl", ActionArchive, "payments-events") {
		t.Fatalf("expected non-matching topic to be denied")
	}
	if a.Allows("etl", ActionPublish, "orders-events") {
		t.Fatalf("expected non-matching action to fall through to default-deny")
	}
}

func TestDenyRuleTakesPrecedenceOverAllow(t *testing.T) {
	a := NewAuthorizer(Config{
		Enabled:       true,
		DefaultPolicy: "allow",
		Principals: []PrincipalRules{
			{
				Name:  "oncall",
				Allow: []Rule{{Action: ActionAny, Topic: "*"}},
				Deny:  []Rule{{Action: ActionArchive, Topic: "__transaction_state-*"}},
			},
		},
	})
	if a.Allows("oncall", ActionArchive, "__transaction_state-0") {
		t.Fatalf("expected deny rule to override the broader allow rule")
	}
	if !a.Allows("oncall", ActionArchive, "orders-0") {
		t.Fatalf("expected unrelated topic to still be allowed")
	}
}
