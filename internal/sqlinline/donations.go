package sqlinline

// donationColumns is the projection shared by every donation query; scan
// order is fixed by repo.scanDonation.
const donationColumns = `id::text, first_name, last_name, email, phone, address, amount_cents, currency, purpose,
       is_anonymous, message, status, order_id, transaction_id, properties, reconcile_attempts,
       completed_at, created_at, updated_at`

const QInsertDonation = `--sql 23944eed-6981-4b85-8dad-0ca4e35aec83
insert into donations(id, first_name, last_name, email, phone, address, amount_cents, currency, purpose,
                      is_anonymous, message, status, properties, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, $6::bigint, $7::text, $8::text,
        $9::bool, $10::text, 'PENDING', coalesce($11::jsonb, '{}'::jsonb), now(), now())
returning id::text, status, created_at, updated_at;
`

const QSelectDonationByID = `--sql 2851711a-4e31-4eb7-8e80-6e340be2a08b
select ` + donationColumns + `
from donations
where id = $1::uuid;
`

const QSelectDonationStatus = `--sql 6f51e17d-6f59-41df-9060-c2776a05ec21
select status
from donations
where id = $1::uuid;
`

const QListDonations = `--sql 356eee5f-9c27-4e9f-bb95-88c36c9dedda
select ` + donationColumns + `
from donations
where ($1::text = '' or status = $1::text)
  and ($2::text = '' or first_name || ' ' || last_name ilike '%' || $2::text || '%' or email ilike '%' || $2::text || '%')
order by created_at desc
limit $3::int offset $4::int;
`

const QCountDonations = `--sql 251b9433-0122-42aa-bb80-14abc42e6b39
select count(*)
from donations
where ($1::text = '' or status = $1::text)
  and ($2::text = '' or first_name || ' ' || last_name ilike '%' || $2::text || '%' or email ilike '%' || $2::text || '%');
`

const QTransitionDonation = `--sql 3757fa7a-d4a4-462c-8b5b-94632057dd09
update donations
set status         = $2::text,
    order_id       = coalesce(nullif($3::text, ''), order_id),
    transaction_id = coalesce(nullif($4::text, ''), transaction_id),
    completed_at   = case when $2::text = 'COMPLETED' then now() else completed_at end,
    updated_at     = now()
where id = $1::uuid
  and status = any($5::text[])
returning ` + donationColumns + `;
`

const QDeleteDonation = `--sql fc8da300-9fbf-4a81-865c-e77191407177
delete from donations
where id = $1::uuid;
`

const QClaimStaleDonations = `--sql c4caa778-a253-46a1-9acd-24ba68b070b3
with stale as (
    select id
    from donations
    where status = 'PENDING'
      and order_id is not null
      and coalesce(reconciled_at, created_at) < $1::timestamptz
    order by created_at asc
    for update skip locked
    limit $2::int
)
update donations d
set reconcile_attempts = d.reconcile_attempts + 1,
    reconciled_at      = now()
from stale
where d.id = stale.id
returning d.id::text, d.first_name, d.last_name, d.email, d.phone, d.address, d.amount_cents, d.currency, d.purpose,
          d.is_anonymous, d.message, d.status, d.order_id, d.transaction_id, d.properties, d.reconcile_attempts,
          d.completed_at, d.created_at, d.updated_at;
`

const QDonationTotals = `--sql f1823a64-34a3-4121-92ac-49531b03294c
select count(*),
       count(*) filter (where status = 'PENDING'),
       count(*) filter (where status = 'COMPLETED'),
       count(*) filter (where status = 'FAILED'),
       count(*) filter (where status = 'REFUNDED'),
       coalesce(sum(amount_cents) filter (where status = 'COMPLETED'), 0)::bigint
from donations;
`
