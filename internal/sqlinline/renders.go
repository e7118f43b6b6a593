package sqlinline

const QCreateRendersTable = `--sql c226f064-30c2-4fca-b0b9-d60b206f0094
create table if not exists studio_renders (
  id uuid primary key,
  image_id text not null,
  name text not null,
  preset text not null,
  color text not null default '',
  logo_id text not null default '',
  status text not null,
  error text not null default '',
  duration_ms bigint not null default 0,
  created_at timestamptz not null default now()
);
`

const QInsertRender = `--sql ea2388df-984d-4de1-9414-5b27350c748b
insert into studio_renders(
  id,
  image_id,
  name,
  preset,
  color,
  logo_id,
  status,
  error,
  duration_ms,
  created_at
) values ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9::bigint, $10);
`

const QRenderSummary = `--sql 41f43ba1-4dfe-4fc9-829f-18ae0d662495
select
  status,
  count(*)::bigint,
  coalesce(avg(duration_ms), 0)::bigint
from studio_renders
where created_at >= $1
group by status;
`
